package errors_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/rentalhub/internal/app/features/errors"
	"github.com/dalemusser/rentalhub/internal/testutil"
)

func TestNotFound_APIAnswersJSON(t *testing.T) {
	rec := testutil.NewRecorder()
	uierrors.NotFound(rec, testutil.NewRequest(http.MethodGet, "/api/nope"))
	rec.AssertStatus(t, http.StatusNotFound)
	if rec.ErrorMessage() != "Not found" {
		t.Errorf("error = %q", rec.ErrorMessage())
	}
}

func TestMethodNotAllowed_AcceptJSON(t *testing.T) {
	req := testutil.NewRequest(http.MethodPatch, "/properties")
	req.Header.Set("Accept", "application/json")
	rec := testutil.NewRecorder()
	uierrors.MethodNotAllowed(rec, req)
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
	if rec.ErrorMessage() != "Method not allowed" {
		t.Errorf("error = %q", rec.ErrorMessage())
	}
}
