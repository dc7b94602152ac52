// Package consultations persists finalized visit summaries to PostgreSQL.
package consultations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalflow/clinicalflow/internal/encounter"
)

// Consultation is one persisted visit summary row.
type Consultation struct {
	ID          uuid.UUID       `json:"id"`
	PatientID   string          `json:"patientId"`
	PatientName string          `json:"patientName"`
	SummaryText string          `json:"summaryText"`
	GeneratedBy string          `json:"generatedBy"`
	Approved    bool            `json:"approved"`
	Record      json.RawMessage `json:"record"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store persists consultations. A nil Store is a no-op saver, mirroring how
// the rest of the app treats optional persistence.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Save writes one visit summary. Implements encounter.ConsultationSaver.
func (s *Store) Save(ctx context.Context, summary encounter.VisitSummary) error {
	if s == nil || s.db == nil {
		return nil
	}

	record, err := json.Marshal(summary.Data)
	if err != nil {
		return fmt.Errorf("consultations: failed to marshal visit record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO consultations (id, patient_id, patient_name, summary_text, generated_by, approved, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(),
		summary.Data.Patient.ID,
		summary.Data.Patient.Name,
		summary.Text,
		summary.GeneratedBy,
		summary.Approved,
		record,
		summary.Data.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("consultations: failed to insert consultation: %w", err)
	}
	return nil
}

// ListByPatient returns a patient's consultations, newest first.
func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]Consultation, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("consultations: store is not configured")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, patient_id, patient_name, summary_text, generated_by, approved, record, created_at
		FROM consultations
		WHERE patient_id = $1
		ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("consultations: failed to query consultations: %w", err)
	}
	defer rows.Close()

	var out []Consultation
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(&c.ID, &c.PatientID, &c.PatientName, &c.SummaryText, &c.GeneratedBy, &c.Approved, &c.Record, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("consultations: failed to scan consultation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("consultations: failed to iterate consultations: %w", err)
	}
	return out, nil
}
