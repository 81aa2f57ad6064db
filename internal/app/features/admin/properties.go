// internal/app/features/admin/properties.go
package admin

import (
	"net/http"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/paging"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

type propertiesData struct {
	viewdata.BaseVM
	Rows     []models.Property
	Search   string
	Status   string
	Statuses []string
	Total    int
	Filtered int
	Page     int
	Pages    int
	Range    paging.Range
	Error    string
}

// filterProperties keeps properties whose title or city contains search
// (case and accent insensitive) and whose status matches.
func filterProperties(props []models.Property, search, status string) []models.Property {
	needle := text.Fold(search)
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if status != "" && p.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(text.Fold(p.Title), needle) &&
			!strings.Contains(text.Fold(p.Address.City), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ServeProperties renders the property list, newest first.
//
// Route: GET /admin/properties
func (h *Handler) ServeProperties(w http.ResponseWriter, r *http.Request) {
	data := propertiesData{
		BaseVM:   viewdata.NewBaseVM(r, "Properties"),
		Search:   strings.TrimSpace(query.Get(r, "search")),
		Statuses: []string{models.ListingActive, models.ListingDraft, models.ListingArchived},
	}
	if st := normalize.Filter(query.Get(r, "status")); st != "" {
		for _, s := range data.Statuses {
			if s == st {
				data.Status = st
			}
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin properties")
	defer cancel()

	props, err := h.Properties.List(ctx)
	if err != nil {
		h.Log.Error("admin properties list failed", zap.Error(err))
		data.Error = "Properties could not be loaded. Try again shortly."
	}

	filtered := filterProperties(props, data.Search, data.Status)
	size := paging.ParsePageSize(r)
	data.Total = len(props)
	data.Filtered = len(filtered)
	data.Page = paging.Clamp(paging.ParsePage(r), len(filtered), size)
	data.Pages = paging.Pages(len(filtered), size)
	data.Range = paging.ComputeRange(data.Page, len(filtered), size)
	lo, hi := paging.Bounds(data.Page, len(filtered), size)
	data.Rows = filtered[lo:hi]

	templates.Render(w, r, "admin_properties", data)
}
