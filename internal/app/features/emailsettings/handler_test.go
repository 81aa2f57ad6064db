package emailsettings_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/features/emailsettings"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/rentalhub/internal/testutil"
	"go.uber.org/zap"
)

type memSettings struct {
	saved    *models.EmailSettings
	defaults []string
	saves    int
	saveErr  error
}

func (m *memSettings) Get(context.Context) (models.EmailSettings, error) {
	if m.saved != nil {
		return *m.saved, nil
	}
	return models.EmailSettings{Recipients: append([]string{}, m.defaults...), IsDefault: true}, nil
}

func (m *memSettings) Save(_ context.Context, recipients []string, by string) (models.EmailSettings, error) {
	m.saves++
	if m.saveErr != nil {
		return models.EmailSettings{}, m.saveErr
	}
	now := time.Now().UTC()
	m.saved = &models.EmailSettings{Recipients: recipients, UpdatedAt: &now, UpdatedBy: by}
	return *m.saved, nil
}

func newHandler(store *memSettings) http.Handler {
	return emailsettings.Routes(emailsettings.NewHandler(store, nil, zap.NewNop()))
}

func TestGetSettings_DefaultsUntilSaved(t *testing.T) {
	store := &memSettings{defaults: []string{"owner@example.com"}}
	h := newHandler(store)

	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewAdminRequest(http.MethodGet, "/", nil))
	rec.AssertStatus(t, http.StatusOK)

	var got models.EmailSettings
	rec.DecodeJSON(t, &got)
	if !got.IsDefault || len(got.Recipients) != 1 || got.Recipients[0] != "owner@example.com" {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

func TestUpdateSettings_NormalizesAndRecordsActor(t *testing.T) {
	store := &memSettings{}
	h := newHandler(store)

	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewAdminRequest(http.MethodPut, "/", map[string]any{
		"recipients": []string{" Leasing@Example.com ", "leasing@example.com", "", "ops@example.com"},
	}))
	rec.AssertStatus(t, http.StatusOK)

	var got models.EmailSettings
	rec.DecodeJSON(t, &got)
	want := []string{"leasing@example.com", "ops@example.com"}
	if strings.Join(got.Recipients, ",") != strings.Join(want, ",") {
		t.Errorf("recipients = %v, want %v", got.Recipients, want)
	}
	if got.UpdatedBy != testutil.AdminUser().Email {
		t.Errorf("updatedBy = %q", got.UpdatedBy)
	}
	if got.IsDefault {
		t.Error("saved settings reported as default")
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	tooMany := make([]string, 21)
	for i := range tooMany {
		tooMany[i] = "r" + string(rune('a'+i)) + "@example.com"
	}

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"empty list", map[string]any{"recipients": []string{}}, "recipients"},
		{"only blanks", map[string]any{"recipients": []string{" ", ""}}, "recipients"},
		{"too many", map[string]any{"recipients": tooMany}, "recipients"},
		{"bad address", map[string]any{"recipients": []string{"ok@example.com", "not-an-email"}}, "recipients[1]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &memSettings{}
			rec := testutil.NewRecorder()
			newHandler(store).ServeHTTP(rec, testutil.NewAdminRequest(http.MethodPut, "/", tc.body))
			rec.AssertStatus(t, http.StatusBadRequest)

			var env struct {
				Details map[string]string `json:"details"`
			}
			rec.DecodeJSON(t, &env)
			if _, ok := env.Details[tc.field]; !ok {
				t.Errorf("details = %v, want key %q", env.Details, tc.field)
			}
			if store.saves != 0 {
				t.Errorf("saves = %d, want 0", store.saves)
			}
		})
	}
}

func TestUpdateSettings_BadJSONAndStoreError(t *testing.T) {
	store := &memSettings{}
	rec := testutil.NewRecorder()
	newHandler(store).ServeHTTP(rec, testutil.NewAdminRequest(http.MethodPut, "/", `{"recipients":"x","extra":1}`))
	rec.AssertStatus(t, http.StatusBadRequest)

	store.saveErr = errors.New("mongo down")
	rec = testutil.NewRecorder()
	newHandler(store).ServeHTTP(rec, testutil.NewAdminRequest(http.MethodPut, "/", map[string]any{
		"recipients": []string{"a@example.com"},
	}))
	rec.AssertStatus(t, http.StatusInternalServerError)
	if rec.ErrorMessage() != "Failed to save email settings" {
		t.Errorf("error = %q", rec.ErrorMessage())
	}
}

func TestRoutes_RequireAdmin(t *testing.T) {
	h := newHandler(&memSettings{})

	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, "/", map[string]any{
		"recipients": []string{"a@example.com"},
	}), testutil.RegularUser()))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
