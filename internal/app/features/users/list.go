// internal/app/features/users/list.go
package users

import (
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/usertable"
)

var tableParams = []string{"search", "role", "status", "sort", "dir", "page", "page_size"}

// ListUsers returns user documents, newest first. Any table parameter in
// the query string switches to a filtered, sorted, paged response.
//
// Route: GET /api/users/firestore
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list user documents")
	defer cancel()

	all, err := h.Users.List(ctx)
	if err != nil {
		h.fail(w, err, "list users")
		return
	}

	if !hasTableQuery(r) {
		respond.JSON(w, http.StatusOK, map[string]any{"users": all, "count": len(all)})
		return
	}

	res := usertable.Apply(all, usertable.FromRequest(r))
	respond.JSON(w, http.StatusOK, map[string]any{
		"users":    res.Rows,
		"count":    len(res.Rows),
		"total":    res.Total,
		"filtered": res.Filtered,
		"page":     res.Page,
		"pages":    res.Pages,
		"pageSize": res.PageSize,
	})
}

func hasTableQuery(r *http.Request) bool {
	q := r.URL.Query()
	for _, k := range tableParams {
		if q.Has(k) {
			return true
		}
	}
	return false
}
