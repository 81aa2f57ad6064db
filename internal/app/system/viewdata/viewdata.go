// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{BaseVM: viewdata.NewBaseVM(r, "Page Title")}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string

	// Page context
	Title       string
	CurrentPath string
	Year        int
}

var (
	mu       sync.RWMutex
	siteName = "RentalHub"
)

// Init sets the site name shown in page titles and the footer.
func Init(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	siteName = name
	mu.Unlock()
}

// SiteName returns the configured site name.
func SiteName() string {
	mu.RLock()
	defer mu.RUnlock()
	return siteName
}

// NewBaseVM fills the common fields from the request.
func NewBaseVM(r *http.Request, title string) BaseVM {
	role, _, email, signedIn := authz.UserCtx(r)
	name := email
	if u, ok := auth.CurrentUser(r); ok && u.Name != "" {
		name = u.Name
	}
	return BaseVM{
		SiteName:    SiteName(),
		IsLoggedIn:  signedIn,
		IsAdmin:     authz.IsAdmin(r),
		Role:        role,
		UserName:    name,
		Title:       title,
		CurrentPath: r.URL.Path,
		Year:        time.Now().Year(),
	}
}
