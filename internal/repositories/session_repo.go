package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	intconfig "transitbook/internal/config"
	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
)

// SessionRepo persists one BookingDraftState per wizard session so a page
// reload resumes mid-flow. Rows written under an older schema version are
// discarded on load instead of migrated.
type SessionRepo struct {
	DB *sql.DB
}

func (r SessionRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureTable creates the wizard_sessions table when missing.
func (r SessionRepo) EnsureTable() error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}
	ddl := `
CREATE TABLE IF NOT EXISTS wizard_sessions (
	id VARCHAR(64) PRIMARY KEY,
	schema_version INT NOT NULL,
	state JSON NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.Exec(ddl)
	return err
}

// Save upserts the full draft for a session. Every mutation goes through here,
// mirroring the persist-on-every-setter contract.
func (r SessionRepo) Save(sessionID string, state models.BookingDraftState) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ValidationError{Field: "session_id", Msg: "id is required"}
	}
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	_, err = db.Exec(`
		INSERT INTO wizard_sessions (id, schema_version, state)
		VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE schema_version=VALUES(schema_version), state=VALUES(state)
	`, sessionID, models.DraftSchemaVersion, payload)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// Load reads the draft for a session. A missing row or a schema-version
// mismatch both yield a fresh initial state.
func (r SessionRepo) Load(sessionID string) (models.BookingDraftState, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.NewDraftState(), domain.ValidationError{Field: "session_id", Msg: "id is required"}
	}
	db := r.db()
	if db == nil {
		return models.NewDraftState(), domain.InternalError{Msg: "db not available"}
	}

	var (
		version int
		payload []byte
	)
	err := db.QueryRow(`SELECT schema_version, state FROM wizard_sessions WHERE id=? LIMIT 1`, sessionID).
		Scan(&version, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewDraftState(), nil
		}
		return models.NewDraftState(), domain.InternalError{Err: err}
	}
	if version != models.DraftSchemaVersion {
		// stale persisted shape from an older deploy; start over
		return models.NewDraftState(), nil
	}

	var state models.BookingDraftState
	if err := json.Unmarshal(payload, &state); err != nil {
		return models.NewDraftState(), nil
	}
	if state.SelectedSeats == nil {
		state.SelectedSeats = []models.SelectedSeat{}
	}
	if state.Passengers <= 0 {
		state.Passengers = 1
	}
	return state, nil
}

// Delete removes a session row entirely ("book another trip", completed
// booking, or confirmed forced navigation away).
func (r SessionRepo) Delete(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ValidationError{Field: "session_id", Msg: "id is required"}
	}
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db not available"}
	}
	if _, err := db.Exec(`DELETE FROM wizard_sessions WHERE id=?`, sessionID); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
