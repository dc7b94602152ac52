package consultations

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicalflow/clinicalflow/internal/encounter"
)

func testSummary() encounter.VisitSummary {
	return encounter.VisitSummary{
		Text:        "CLINICAL VISIT SUMMARY",
		GeneratedBy: encounter.GeneratedByTemplate,
		Data: encounter.VisitRecord{
			Patient: encounter.PatientSnapshot{
				ID:   "pat-harsh-dange",
				Name: "Harsh Dange",
			},
			Symptoms:    []string{},
			LabsOrdered: []string{},
			Timestamp:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestSaveInsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO consultations").
		WithArgs(sqlmock.AnyArg(), "pat-harsh-dange", "Harsh Dange", "CLINICAL VISIT SUMMARY",
			encounter.GeneratedByTemplate, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	require.NoError(t, store.Save(context.Background(), testSummary()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveNilStoreIsNoop(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Save(context.Background(), testSummary()))
}

func TestListByPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "patient_id", "patient_name", "summary_text", "generated_by", "approved", "record", "created_at"}).
		AddRow(uuid.NewString(), "pat-harsh-dange", "Harsh Dange", "summary", "template", false, []byte(`{}`), created)

	mock.ExpectQuery("SELECT (.+) FROM consultations").
		WithArgs("pat-harsh-dange").
		WillReturnRows(rows)

	store := NewStore(db)
	out, err := store.ListByPatient(context.Background(), "pat-harsh-dange")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Harsh Dange", out[0].PatientName)
	assert.Equal(t, created, out[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPatientQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM consultations").
		WithArgs("pat-x").
		WillReturnError(assert.AnError)

	store := NewStore(db)
	_, err = store.ListByPatient(context.Background(), "pat-x")
	assert.Error(t, err)
}
