package patients

import (
	"context"
	"sync"
)

// Repository defines the interface for patient storage
type Repository interface {
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
}

// InMemoryRepository is an implementation of Repository using in-memory storage.
// It backs demo and test environments; production uses PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
	order    []string
}

// NewInMemoryRepository creates a new in-memory repository holding the given patients.
func NewInMemoryRepository(seed ...*Patient) *InMemoryRepository {
	r := &InMemoryRepository{
		patients: make(map[string]*Patient),
	}
	for _, p := range seed {
		r.patients[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// GetByID retrieves a patient by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

// List returns all patients in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Patient, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.patients[id])
	}
	return out, nil
}
