// Package artifacts persists conversion results so repeated requests for the
// same monster do not redo the pipeline.
package artifacts

import (
	"context"
	"time"

	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=mockartifacts . Repository

// Record is one stored conversion result
type Record struct {
	ID         string              `json:"id"`
	MonsterKey string              `json:"monster_key,omitempty"`
	Name       string              `json:"name"`
	Artifact   *synthesis.Artifact `json:"artifact"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Repository stores and retrieves conversion records
type Repository interface {
	Save(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	ListByMonster(ctx context.Context, monsterKey string) ([]*Record, error)
	Delete(ctx context.Context, id string) error
}
