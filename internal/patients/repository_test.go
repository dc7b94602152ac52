package patients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepositoryGetByID(t *testing.T) {
	repo := NewInMemoryRepository(SeedPatients()...)

	p, err := repo.GetByID(context.Background(), "pat-sarah-connor")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Connor", p.Name)
	assert.Equal(t, WelcomeProfileCardiac, p.WelcomeProfile())
}

func TestInMemoryRepositoryUnknownID(t *testing.T) {
	repo := NewInMemoryRepository(SeedPatients()...)

	_, err := repo.GetByID(context.Background(), "pat-nobody")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestInMemoryRepositoryListPreservesOrder(t *testing.T) {
	repo := NewInMemoryRepository(SeedPatients()...)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "pat-harsh-dange", list[0].ID)
	assert.Equal(t, "pat-sarah-connor", list[1].ID)
	assert.Equal(t, "pat-john-wick", list[2].ID)
}

func TestMetadataAccessors(t *testing.T) {
	p := &Patient{Metadata: Metadata{
		MetaBaselineBP:    "155/95",
		MetaHardware:      []any{"Tibia Rod", 42, "Spinal Plate"},
		MetaLastPainScore: float64(7),
	}}

	assert.Equal(t, "155/95", p.MetaString(MetaBaselineBP, "120/80"))
	assert.Equal(t, "fallback", p.MetaString(MetaRiskLevel, "fallback"))

	// Non-string hardware entries are dropped.
	assert.Equal(t, []string{"Tibia Rod", "Spinal Plate"}, p.Hardware())

	score, ok := p.LastPainScore()
	require.True(t, ok)
	assert.Equal(t, 7, score)
}

func TestMetadataAccessorsNilSafe(t *testing.T) {
	var p *Patient
	assert.Equal(t, "fallback", p.MetaString(MetaBaselineBP, "fallback"))
	assert.Nil(t, p.Hardware())
	_, ok := p.LastPainScore()
	assert.False(t, ok)
	assert.Empty(t, p.WelcomeProfile())
}
