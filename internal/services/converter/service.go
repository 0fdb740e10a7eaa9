package converter

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/ability-forge/internal/clients/dnd5e"
	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/enhance"
	"github.com/KirkDiggler/ability-forge/internal/errors"
	"github.com/KirkDiggler/ability-forge/internal/repositories/artifacts"
	"github.com/KirkDiggler/ability-forge/internal/segment"
	"github.com/KirkDiggler/ability-forge/internal/semantic"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

//go:generate mockgen -destination=mock/mock_service.go -package=mockconverter . Service

const defaultMaxConcurrency = 4

// Input is one ability conversion request
type Input struct {
	Text string
	Name string // Optional explicit name override
}

// Result is the full conversion output for one ability
type Result struct {
	Name       string
	Descriptor *ability.Descriptor
	Artifact   *synthesis.Artifact
	Failures   []enhance.Failure
	RecordID   string // Set when the result was persisted
}

// Service converts ability text into automation artifacts
type Service interface {
	Convert(ctx context.Context, input *Input) (*Result, error)
	ConvertDocument(ctx context.Context, doc string) ([]*Result, error)
	ConvertMonster(ctx context.Context, key string) ([]*Result, error)
}

// Config holds the service dependencies. Builder, Engine and Orchestrator
// are required; the API client, repository and logger are optional.
type Config struct {
	Builder        *semantic.Builder
	Engine         *synthesis.Engine
	Orchestrator   *enhance.Orchestrator
	DnD5eClient    dnd5e.Client
	Repository     artifacts.Repository
	Logger         *zap.Logger
	MaxConcurrency int
}

type service struct {
	builder        *semantic.Builder
	engine         *synthesis.Engine
	orchestrator   *enhance.Orchestrator
	dndClient      dnd5e.Client
	repository     artifacts.Repository
	log            *zap.Logger
	maxConcurrency int
}

// NewService creates a converter service
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("cfg cannot be nil")
	}
	if cfg.Builder == nil {
		return nil, errors.InvalidArgument("cfg.Builder cannot be nil")
	}
	if cfg.Engine == nil {
		return nil, errors.InvalidArgument("cfg.Engine cannot be nil")
	}
	if cfg.Orchestrator == nil {
		return nil, errors.InvalidArgument("cfg.Orchestrator cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	return &service{
		builder:        cfg.Builder,
		engine:         cfg.Engine,
		orchestrator:   cfg.Orchestrator,
		dndClient:      cfg.DnD5eClient,
		repository:     cfg.Repository,
		log:            log,
		maxConcurrency: maxConcurrency,
	}, nil
}

func (s *service) Convert(ctx context.Context, input *Input) (*Result, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	result, err := s.convert(input.Text, input.Name)
	if err != nil {
		return nil, err
	}

	s.persist(ctx, result, "")
	return result, nil
}

func (s *service) ConvertDocument(ctx context.Context, doc string) ([]*Result, error) {
	return s.convertDocument(ctx, doc, "")
}

func (s *service) ConvertMonster(ctx context.Context, key string) ([]*Result, error) {
	if s.dndClient == nil {
		return nil, errors.Internal("no dnd5e client configured")
	}
	if key == "" {
		return nil, errors.InvalidArgument("key cannot be empty")
	}

	monster, err := s.dndClient.GetMonster(key)
	if err != nil {
		return nil, err
	}

	s.log.Info("converting monster",
		zap.String("key", monster.Key),
		zap.Int("actions", len(monster.Actions)))

	return s.convertDocument(ctx, monster.Document(), monster.Key)
}

// convertDocument segments the document and converts each ability with a
// bounded fan-out, preserving document order. Abilities that fail to convert
// are logged and dropped rather than failing the batch.
func (s *service) convertDocument(ctx context.Context, doc, monsterKey string) ([]*Result, error) {
	abilities := segment.Document(doc)
	if len(abilities) == 0 {
		return nil, errors.InvalidArgument("document contains no recognizable abilities")
	}

	results := make([]*Result, len(abilities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, a := range abilities {
		i, a := i, a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := s.convert(a.Text, a.Name)
			if err != nil {
				s.log.Warn("ability conversion skipped",
					zap.String("ability", a.Name),
					zap.Error(err))
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		s.persist(ctx, r, monsterKey)
		out = append(out, r)
	}
	return out, nil
}

func (s *service) convert(text, name string) (*Result, error) {
	descriptor, err := s.builder.Build(text, name)
	if err != nil {
		return nil, err
	}

	base, ids, err := s.engine.Synthesize(descriptor)
	if err != nil {
		return nil, err
	}

	enhanced := s.orchestrator.Enhance(base, descriptor, ids)
	for _, failure := range enhanced.Failures {
		s.log.Warn("enhancement pass failed",
			zap.String("ability", descriptor.Name),
			zap.String("pass", failure.Pass),
			zap.String("reason", failure.Reason))
	}

	return &Result{
		Name:       descriptor.Name,
		Descriptor: descriptor,
		Artifact:   enhanced.Artifact,
		Failures:   enhanced.Failures,
	}, nil
}

// persist saves the result when a repository is configured. Persistence is
// best effort; a storage failure does not invalidate the conversion.
func (s *service) persist(ctx context.Context, result *Result, monsterKey string) {
	if s.repository == nil {
		return
	}

	record := &artifacts.Record{
		MonsterKey: monsterKey,
		Name:       result.Name,
		Artifact:   result.Artifact,
	}
	if err := s.repository.Save(ctx, record); err != nil {
		s.log.Warn("failed to persist artifact",
			zap.String("ability", result.Name),
			zap.Error(err))
		return
	}
	result.RecordID = record.ID
}
