package patients

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresRepository implements Repository backed by PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a Postgres-backed patient repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	if db == nil {
		return nil
	}
	return &PostgresRepository{db: db}
}

const patientColumns = `id, name, age, gender, blood_type, medications, allergies, chronic_conditions, metadata`

// GetByID retrieves a patient by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	if r == nil || r.db == nil {
		return nil, ErrPatientNotFound
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)

	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: failed to get: %w", err)
	}
	return p, nil
}

// List returns all patients ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*Patient, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("patients: failed to list: %w", err)
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	var p Patient
	var medications, allergies, conditions, metadata []byte

	err := row.Scan(
		&p.ID, &p.Name, &p.Age, &p.Gender, &p.BloodType,
		&medications, &allergies, &conditions, &metadata,
	)
	if err != nil {
		return nil, err
	}

	p.Medications = decodeStringList(medications)
	p.Allergies = decodeStringList(allergies)
	p.ChronicConditions = decodeStringList(conditions)
	if len(metadata) > 0 {
		var m Metadata
		if err := json.Unmarshal(metadata, &m); err == nil {
			p.Metadata = m
		}
	}
	return &p, nil
}

func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return []string{}
	}
	return list
}
