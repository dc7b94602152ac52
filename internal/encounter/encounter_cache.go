package encounter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// SavedEncounter is a point-in-time snapshot of an encounter, kept so a
// clinician can revisit a session later.
type SavedEncounter struct {
	ID          string         `json:"id"`
	PatientID   string         `json:"patientId"`
	PatientName string         `json:"patientName"`
	Messages    []Entry        `json:"messages"`
	Context     map[string]any `json:"context"`
	SavedAt     time.Time      `json:"savedAt"`
}

// EncounterCache stores saved encounter snapshots in Redis, newest last, one
// list per patient.
type EncounterCache struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	now    func() time.Time
}

func NewEncounterCache(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *EncounterCache {
	if client == nil {
		panic("encounter: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if tracer == nil {
		tracer = otel.Tracer("clinicalflow.internal.encounter.cache")
	}
	return &EncounterCache{
		redis:  client,
		ttl:    ttl,
		tracer: tracer,
		now:    time.Now,
	}
}

func (c *EncounterCache) Save(ctx context.Context, patientID, patientName string, session *Session) (*SavedEncounter, error) {
	ctx, span := c.tracer.Start(ctx, "encounter.save_snapshot")
	defer span.End()

	saved := &SavedEncounter{
		ID:          uuid.NewString(),
		PatientID:   patientID,
		PatientName: patientName,
		Messages:    session.Entries(),
		Context:     session.Context().Snapshot(),
		SavedAt:     c.now(),
	}

	data, err := json.Marshal(saved)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("encounter: failed to marshal snapshot: %w", err)
	}

	key := encounterKey(patientID)
	if err := c.redis.RPush(ctx, key, data).Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("encounter: failed to persist snapshot: %w", err)
	}
	if err := c.redis.Expire(ctx, key, c.ttl).Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("encounter: failed to set snapshot ttl: %w", err)
	}
	return saved, nil
}

// List returns all saved snapshots for a patient in save order. A patient
// with no snapshots yields an empty slice.
func (c *EncounterCache) List(ctx context.Context, patientID string) ([]SavedEncounter, error) {
	ctx, span := c.tracer.Start(ctx, "encounter.list_snapshots")
	defer span.End()

	raw, err := c.redis.LRange(ctx, encounterKey(patientID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("encounter: failed to load snapshots: %w", err)
	}

	out := make([]SavedEncounter, 0, len(raw))
	for _, item := range raw {
		var saved SavedEncounter
		if err := json.Unmarshal([]byte(item), &saved); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("encounter: failed to decode snapshot: %w", err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func encounterKey(patientID string) string {
	return fmt.Sprintf("encounter:saved:%s", patientID)
}
