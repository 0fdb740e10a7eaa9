package artifacts

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/ability-forge/internal/errors"
	"github.com/KirkDiggler/ability-forge/internal/uuid"
)

// inMemoryRepo implements Repository with a mutex-guarded map. Used in tests
// and as the fallback when Redis is unavailable.
type inMemoryRepo struct {
	mu            sync.RWMutex
	records       map[string]*Record
	byMonster     map[string][]string
	uuidGenerator uuid.Generator
}

// NewInMemory creates an in-memory artifact repository
func NewInMemory() Repository {
	return &inMemoryRepo{
		records:       make(map[string]*Record),
		byMonster:     make(map[string][]string),
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
	}
}

func (r *inMemoryRepo) Save(_ context.Context, record *Record) error {
	if record == nil {
		return errors.InvalidArgument("record cannot be nil")
	}
	if record.Artifact == nil {
		return errors.InvalidArgument("record artifact cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = r.uuidGenerator.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	stored := *record
	if _, exists := r.records[record.ID]; !exists && record.MonsterKey != "" {
		r.byMonster[record.MonsterKey] = append(r.byMonster[record.MonsterKey], record.ID)
	}
	r.records[record.ID] = &stored
	return nil
}

func (r *inMemoryRepo) Get(_ context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, errors.InvalidArgument("id cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, errors.NotFoundf("artifact record '%s' not found", id)
	}

	out := *record
	return &out, nil
}

func (r *inMemoryRepo) ListByMonster(_ context.Context, monsterKey string) ([]*Record, error) {
	if monsterKey == "" {
		return nil, errors.InvalidArgument("monster key cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byMonster[monsterKey]
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		if record, ok := r.records[id]; ok {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *inMemoryRepo) Delete(_ context.Context, id string) error {
	if id == "" {
		return errors.InvalidArgument("id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return errors.NotFoundf("artifact record '%s' not found", id)
	}

	delete(r.records, id)
	if record.MonsterKey != "" {
		ids := r.byMonster[record.MonsterKey]
		for i, existing := range ids {
			if existing == id {
				r.byMonster[record.MonsterKey] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	return nil
}
