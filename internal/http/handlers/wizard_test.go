package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"transitbook/internal/cache"
	intconfig "transitbook/internal/config"
	"transitbook/internal/domain/models"
	api "transitbook/internal/http"
	"transitbook/internal/http/handlers"
	"transitbook/internal/payment"
)

func testRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	env := intconfig.Env{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	}
	handlers.Configure(env, nil, payment.New(nil, time.Second), cache.SeatCache{})
	return api.NewRouter(env), mock
}

func TestCreateSession_ReturnsTokenAndSkipsTripSelection(t *testing.T) {
	r, mock := testRouter(t)

	mock.ExpectExec("INSERT INTO wizard_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"quickSearch":{"departure":"Lagos","destination":"Abuja","date":"2026-09-10","passengers":2}}`
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token   string `json:"token"`
		Session struct {
			SessionID   string   `json:"sessionId"`
			ActiveSteps []string `json:"activeSteps"`
		} `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" || resp.Session.SessionID == "" {
		t.Fatalf("token or session id missing: %s", w.Body.String())
	}
	for _, step := range resp.Session.ActiveSteps {
		if step == "trip_selection" {
			t.Fatalf("trip selection should be hidden: %v", resp.Session.ActiveSteps)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetSession_RequiresBearerToken(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/wizard/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/wizard/session", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Code)
	}
}

func TestGetSession_LoadsPersistedDraft(t *testing.T) {
	r, mock := testRouter(t)

	// create a session to get a signed token
	mock.ExpectExec("INSERT INTO wizard_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/sessions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Token   string `json:"token"`
		Session struct {
			SessionID string `json:"sessionId"`
		} `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	st := models.NewDraftState()
	st.Departure = "Lagos"
	st.Destination = "Abuja"
	st.Date = "2026-09-10"
	payload, _ := json.Marshal(st)
	mock.ExpectQuery("SELECT schema_version, state FROM wizard_sessions").
		WithArgs(created.Session.SessionID).
		WillReturnRows(sqlmock.NewRows([]string{"schema_version", "state"}).
			AddRow(models.DraftSchemaVersion, payload))

	req = httptest.NewRequest(http.MethodGet, "/api/wizard/session", nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Session struct {
			State       models.BookingDraftState `json:"state"`
			CurrentStep string                   `json:"currentStep"`
		} `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Session.State.Departure != "Lagos" || resp.Session.CurrentStep != "bus_selection" {
		t.Fatalf("unexpected session %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentCallback_UnknownReference(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/no-such-ref/callback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
