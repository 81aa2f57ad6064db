// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/paging"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// parseFilter reads the list filters from the query string. Unknown
// categories and event types are dropped rather than rejected.
func parseFilter(r *http.Request) (audit.QueryFilter, listData) {
	data := listData{
		Category:  normalize.Filter(query.Get(r, "category")),
		EventType: normalize.Filter(query.Get(r, "event_type")),
		Actor:     strings.TrimSpace(query.Get(r, "actor")),
		StartDate: strings.TrimSpace(query.Get(r, "start")),
		EndDate:   strings.TrimSpace(query.Get(r, "end")),
	}
	if data.Category != audit.CategoryAuth && data.Category != audit.CategoryAdmin {
		data.Category = ""
	}
	data.EventTypes = eventTypesForCategory(data.Category)
	if !slices.Contains(data.EventTypes, data.EventType) {
		data.EventType = ""
	}

	f := audit.QueryFilter{
		Category:  data.Category,
		EventType: data.EventType,
		Actor:     data.Actor,
	}
	if t, err := time.Parse(dateLayout, data.StartDate); err == nil {
		f.StartTime = &t
	} else {
		data.StartDate = ""
	}
	if t, err := time.Parse(dateLayout, data.EndDate); err == nil {
		// Include the whole end day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	} else {
		data.EndDate = ""
	}
	return f, data
}

// ServeList renders audit events, newest first, with category, event type,
// actor and date filters.
//
// Route: GET /admin/audit
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, data := parseFilter(r)
	data.BaseVM = viewdata.NewBaseVM(r, "Audit log")
	data.Categories = allCategories()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	size := paging.ParsePageSize(r)
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("count audit events failed", zap.Error(err))
		data.Error = "The audit log could not be loaded. Try again shortly."
		templates.Render(w, r, "audit_list", data)
		return
	}

	data.Total = total
	data.Page = paging.Clamp(paging.ParsePage(r), int(total), size)
	data.Pages = paging.Pages(int(total), size)
	data.Range = paging.ComputeRange(data.Page, int(total), size)

	filter.Limit = int64(size)
	filter.Offset = int64((data.Page - 1) * size)
	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("query audit events failed", zap.Error(err))
		data.Error = "The audit log could not be loaded. Try again shortly."
	}
	data.Items = events

	templates.Render(w, r, "audit_list", data)
}
