// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"github.com/dalemusser/rentalhub/internal/app/system/paging"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
)

// listData is the view model for the audit log page.
type listData struct {
	viewdata.BaseVM

	Items []audit.Event

	// Filters
	Category  string
	EventType string
	Actor     string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	Page  int
	Pages int
	Total int64
	Range paging.Range
	Error string
}

type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

var authEvents = []string{
	audit.EventLoginSuccess,
	audit.EventLoginFailedUserNotFound,
	audit.EventLoginFailedWrongPassword,
	audit.EventLoginFailedUserDisabled,
	audit.EventLoginFailedRateLimit,
	audit.EventLoginFailedNotAdmin,
	audit.EventLogout,
}

var adminEvents = []string{
	audit.EventUserCreated,
	audit.EventUserUpdated,
	audit.EventUserDeleted,
	audit.EventUserDeletePartial,
	audit.EventAdminClaimGranted,
	audit.EventAdminClaimRevoked,
	audit.EventProfileImageUpdated,
	audit.EventProfileImageDeleted,
	audit.EventPropertyCreated,
	audit.EventPropertyUpdated,
	audit.EventPropertyDeleted,
	audit.EventPropertyImagesAdded,
	audit.EventEmailSettingsUpdated,
}

// eventTypesForCategory returns the event types of a category, or every
// type when category is empty.
func eventTypesForCategory(category string) []string {
	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}
