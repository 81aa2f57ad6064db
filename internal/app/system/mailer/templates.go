// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ContactEmailData holds a contact-form submission.
type ContactEmailData struct {
	SiteName    string
	Name        string
	Email       string
	Phone       string
	Message     string
	SubmittedAt time.Time
}

// BuildContactEmail creates the notification sent to the contact recipients.
// Replies go straight to the visitor.
func BuildContactEmail(to []string, data ContactEmailData) Email {
	return Email{
		To:       to,
		ReplyTo:  data.Email,
		Subject:  fmt.Sprintf("New %s inquiry from %s", data.SiteName, data.Name),
		TextBody: buildContactText(data),
		HTMLBody: buildContactHTML(data),
	}
}

func buildContactText(data ContactEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "New message from the %s contact form.\n\n", data.SiteName)
	fmt.Fprintf(&buf, "Name:  %s\n", data.Name)
	fmt.Fprintf(&buf, "Email: %s\n", data.Email)
	if data.Phone != "" {
		fmt.Fprintf(&buf, "Phone: %s\n", data.Phone)
	}
	fmt.Fprintf(&buf, "Sent:  %s\n\n", data.SubmittedAt.UTC().Format(time.RFC1123))
	buf.WriteString(data.Message + "\n")
	return buf.String()
}

var contactHTML = template.Must(template.New("contact").Parse(contactHTMLTemplate))

func buildContactHTML(data ContactEmailData) string {
	var buf bytes.Buffer
	_ = contactHTML.Execute(&buf, data)
	return buf.String()
}

const contactHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New inquiry</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 28px 32px; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 20px; font-weight: 600; color: #0f766e;">{{.SiteName}} contact form</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 28px 32px; font-size: 15px; color: #374151; line-height: 1.6;">
              <p style="margin: 0 0 4px;"><strong>Name:</strong> {{.Name}}</p>
              <p style="margin: 0 0 4px;"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
              {{if .Phone}}<p style="margin: 0 0 4px;"><strong>Phone:</strong> {{.Phone}}</p>{{end}}
              <div style="margin-top: 20px; padding: 16px; background-color: #f9fafb; border-radius: 6px; white-space: pre-wrap;">{{.Message}}</div>
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af;">Sent {{.SubmittedAt.UTC.Format "Jan 2, 2006 15:04 MST"}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
