package enhance

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// PassFunc is one enhancement pass. Passes are pure functions over the
// semantic model and the pre-generated identifier set; they never mint their
// own effect identifiers and never mutate the base artifact.
type PassFunc func(d *ability.Descriptor, ids *synthesis.EffectIDs) (*synthesis.Partial, error)

// Pass pairs a pass with the subsystem name it reports under
type Pass struct {
	Name string
	Run  PassFunc
}

// DefaultPasses returns the standard pass list in run order
func DefaultPasses() []Pass {
	return []Pass{
		{Name: "requirements", Run: Requirements},
		{Name: "chains", Run: Chains},
		{Name: "usage_flags", Run: UsageFlags},
		{Name: "scripts", Run: Scripts},
		{Name: "recharge", Run: Recharge},
		{Name: "reaction", Run: Reaction},
		{Name: "ongoing", Run: Ongoing},
		{Name: "movement", Run: MovementAttack},
	}
}

// OrchestratorConfig holds dependencies for the pass orchestrator
type OrchestratorConfig struct {
	Logger *zap.Logger
	Passes []Pass // Defaults to DefaultPasses when empty
}

// Orchestrator runs every enhancement pass over a descriptor and merges the
// partial outputs into the base artifact. A failing or panicking pass is
// recorded and skipped; the run always produces an artifact.
type Orchestrator struct {
	log    *zap.Logger
	passes []Pass
}

// Failure records a pass that contributed nothing and why
type Failure struct {
	Pass   string
	Reason string
}

// Result is the outcome of one enhancement run
type Result struct {
	Artifact *synthesis.Artifact
	Failures []Failure
}

// NewOrchestrator creates a pass orchestrator
func NewOrchestrator(cfg *OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{log: zap.NewNop(), passes: DefaultPasses()}
	if cfg != nil {
		if cfg.Logger != nil {
			o.log = cfg.Logger
		}
		if len(cfg.Passes) > 0 {
			o.passes = cfg.Passes
		}
	}
	return o
}

// Enhance folds every pass's partial into the base artifact. The merged
// complexity is the monotonic maximum over base and passes, and the quality
// score is recomputed over the final artifact.
func (o *Orchestrator) Enhance(base *synthesis.Artifact, d *ability.Descriptor, ids *synthesis.EffectIDs) *Result {
	result := &Result{Artifact: base}
	if base == nil || d == nil || ids == nil {
		return result
	}

	applied := 0
	for _, pass := range o.passes {
		partial, err := o.runPass(pass, d, ids)
		if err != nil {
			o.log.Warn("enhancement pass skipped",
				zap.String("pass", pass.Name),
				zap.String("ability", d.Name),
				zap.Error(err))
			result.Failures = append(result.Failures, Failure{Pass: pass.Name, Reason: err.Error()})
			continue
		}
		if partial == nil {
			continue
		}
		partial.Subsystem = pass.Name
		result.Artifact = result.Artifact.Merge(partial)
		applied++
	}

	result.Artifact.Quality = scoreQuality(result.Artifact, applied, len(o.passes))
	return result
}

// runPass isolates a single pass call so a panic inside one pass cannot take
// down the conversion
func (o *Orchestrator) runPass(pass Pass, d *ability.Descriptor, ids *synthesis.EffectIDs) (partial *synthesis.Partial, err error) {
	defer func() {
		if r := recover(); r != nil {
			partial = nil
			err = fmt.Errorf("pass panicked: %v", r)
		}
	}()
	return pass.Run(d, ids)
}
