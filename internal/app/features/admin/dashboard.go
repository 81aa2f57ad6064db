// internal/app/features/admin/dashboard.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type dashboardData struct {
	viewdata.BaseVM

	UsersCount          int64
	AdminsCount         int64
	PropertiesCount     int64
	ActivePropertyCount int64
	DraftPropertyCount  int64

	// Unavailable lists counters that failed to load; the page still renders.
	Unavailable []string
}

// ServeDashboard renders entity counts.
//
// Route: GET /admin
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin dashboard")
	defer cancel()

	data := dashboardData{BaseVM: viewdata.NewBaseVM(r, "Admin Dashboard")}

	count := func(name string, dst *int64, fn func(context.Context) (int64, error)) {
		n, err := fn(ctx)
		if err != nil {
			h.Log.Warn("dashboard count failed", zap.String("counter", name), zap.Error(err))
			data.Unavailable = append(data.Unavailable, name)
			return
		}
		*dst = n
	}
	byStatus := func(status string) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return h.Properties.Count(ctx, status) }
	}

	count("users", &data.UsersCount, h.Users.Count)
	count("admins", &data.AdminsCount, h.Users.CountAdmins)
	count("properties", &data.PropertiesCount, byStatus(""))
	count("active properties", &data.ActivePropertyCount, byStatus(models.ListingActive))
	count("draft properties", &data.DraftPropertyCount, byStatus(models.ListingDraft))

	templates.Render(w, r, "admin_dashboard", data)
}
