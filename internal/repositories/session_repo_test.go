package repositories

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"transitbook/internal/domain/models"
)

func TestSessionRepo_SaveLoadRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SessionRepo{DB: db}

	st := models.NewDraftState()
	st.Departure = "Lagos"
	st.Destination = "Abuja"
	st.Date = "2026-09-10"
	st.Passengers = 2
	st.SelectedBus = &models.TripOffer{TripID: 7, BusType: "sprinter", FareKobo: 1500000}
	st.SelectedSeats = []models.SelectedSeat{{SeatID: 3, SeatNo: "3"}, {SeatID: 4, SeatNo: "4"}}
	st.CurrentStep = 2

	payload, _ := json.Marshal(st)

	mock.ExpectExec("INSERT INTO wizard_sessions").
		WithArgs("sid-1", models.DraftSchemaVersion, payload).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Save("sid-1", st); err != nil {
		t.Fatalf("save error: %v", err)
	}

	mock.ExpectQuery("SELECT schema_version, state FROM wizard_sessions").
		WithArgs("sid-1").
		WillReturnRows(sqlmock.NewRows([]string{"schema_version", "state"}).
			AddRow(models.DraftSchemaVersion, payload))
	got, err := repo.Load("sid-1")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if got.Departure != st.Departure || got.Destination != st.Destination || got.Date != st.Date {
		t.Fatalf("search fields lost: %+v", got)
	}
	if got.SelectedBus == nil || got.SelectedBus.TripID != 7 {
		t.Fatalf("selected bus lost: %+v", got.SelectedBus)
	}
	if len(got.SelectedSeats) != 2 || got.SelectedSeats[1].SeatNo != "4" {
		t.Fatalf("seats lost: %+v", got.SelectedSeats)
	}
	if got.CurrentStep != 2 || got.Passengers != 2 {
		t.Fatalf("step or passengers lost: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionRepo_MissingRowYieldsFreshState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT schema_version, state FROM wizard_sessions").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"schema_version", "state"}))

	got, err := SessionRepo{DB: db}.Load("unknown")
	if err != nil {
		t.Fatalf("missing row must not error: %v", err)
	}
	if got.Passengers != 1 || len(got.SelectedSeats) != 0 || got.CurrentStep != 0 {
		t.Fatalf("expected fresh state, got %+v", got)
	}
}

func TestSessionRepo_SchemaVersionMismatchDiscarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	stale := models.NewDraftState()
	stale.Departure = "Lagos"
	payload, _ := json.Marshal(stale)

	mock.ExpectQuery("SELECT schema_version, state FROM wizard_sessions").
		WithArgs("sid-2").
		WillReturnRows(sqlmock.NewRows([]string{"schema_version", "state"}).
			AddRow(models.DraftSchemaVersion+1, payload))

	got, err := SessionRepo{DB: db}.Load("sid-2")
	if err != nil {
		t.Fatalf("mismatch must not error: %v", err)
	}
	if got.Departure != "" {
		t.Fatalf("stale state survived a version bump: %+v", got)
	}
}

func TestSessionRepo_CorruptPayloadDiscarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT schema_version, state FROM wizard_sessions").
		WithArgs("sid-3").
		WillReturnRows(sqlmock.NewRows([]string{"schema_version", "state"}).
			AddRow(models.DraftSchemaVersion, []byte("{not json")))

	got, err := SessionRepo{DB: db}.Load("sid-3")
	if err != nil {
		t.Fatalf("corrupt payload must not error: %v", err)
	}
	if got.Departure != "" || got.Passengers != 1 {
		t.Fatalf("expected fresh state, got %+v", got)
	}
}

func TestSessionRepo_EmptyIDRejected(t *testing.T) {
	if err := (SessionRepo{}).Save("  ", models.NewDraftState()); err == nil {
		t.Fatalf("blank id must be rejected")
	}
	if _, err := (SessionRepo{}).Load(""); err == nil {
		t.Fatalf("blank id must be rejected")
	}
}
