package search

import (
	"log/slog"

	"github.com/quarrylab/autosketch/internal/cost"
	"github.com/quarrylab/autosketch/internal/rng"
	"github.com/quarrylab/autosketch/internal/rules"
	"github.com/quarrylab/autosketch/internal/sampler"
	"github.com/quarrylab/autosketch/internal/schedule"
)

// Sketch-generation strategy names accepted by GetInitialSketch.
const (
	StrategyRulePrune   = "rule_prune"
	StrategyRandomPrune = "random_prune"
)

// DefaultSketchDepth bounds the number of mutation steps per generated
// sketch when the configuration does not say otherwise.
const DefaultSketchDepth = 6

// Config carries the explicit knobs of a search space. It replaces ambient
// process-wide flags: everything the space consults lives here.
type Config struct {
	// Seed is the root seed for the whole search trajectory.
	// rng.SeedUnset requests a host-entropy seed.
	Seed int64

	// Target names the platform the cost model predicts for.
	Target string

	// UseCostModel enables cost prediction after each mutation.
	UseCostModel bool

	// SketchDepth is the maximum mutation depth per sketch.
	// Zero means DefaultSketchDepth.
	SketchDepth int
}

// Space orchestrates sketch generation and schedule mutation for one
// tuning task. It owns the rule registry exclusively and the single seed
// cell all downstream randomness draws from.
//
// Space is not safe for concurrent use: rules hold bindings between Init
// and Apply, and the seed cell is advanced without locking. Parallel
// workers each build their own Space with a seed forked from a shared root.
type Space struct {
	initial  *schedule.Module
	registry []rules.Rule
	model    cost.Model
	cfg      Config

	// rootSeed is the normalized seed the whole trajectory starts from.
	// Captured once at construction: normalizing the sentinel draws host
	// entropy, so it must happen exactly once per space.
	rootSeed int64
	seed     int64
	tokens   TokenGenerator
}

// SpaceOption configures optional Space parameters.
type SpaceOption func(*Space)

// WithTokenGenerator overrides the run-token generator (for testing).
func WithTokenGenerator(g TokenGenerator) SpaceOption {
	return func(s *Space) { s.tokens = g }
}

// NewSpace builds a search space over the initial module.
//
// The registry slice is copied to keep ownership exclusive. An empty
// registry is a configuration error: the space cannot generate anything
// without rules.
func NewSpace(initial *schedule.Module, registry []rules.Rule, model cost.Model, cfg Config, opts ...SpaceOption) (*Space, error) {
	if len(registry) == 0 {
		return nil, newConfigError("rule registry", "", "at least one rule is required")
	}
	if cfg.SketchDepth == 0 {
		cfg.SketchDepth = DefaultSketchDepth
	}

	reg := make([]rules.Rule, len(registry))
	copy(reg, registry)

	rootSeed := rng.Normalize(cfg.Seed)
	s := &Space{
		initial:  initial,
		registry: reg,
		model:    model,
		cfg:      cfg,
		rootSeed: rootSeed,
		seed:     rootSeed,
		tokens:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Seed returns the normalized root seed the space was created with.
// Stable across calls: a run persisted with this seed regenerates the
// same trajectory.
func (s *Space) Seed() int64 { return s.rootSeed }

// NewRunToken issues a token correlating one sketch batch with its stored
// records.
func (s *Space) NewRunToken() string { return s.tokens.Generate() }

// Registry returns the rule registry in registration order.
// Used for introspection and testing; callers must not mutate it.
func (s *Space) Registry() []rules.Rule { return s.registry }

// ForkWorkerSeed derives an independent seed for a parallel worker from
// the space's advancing stream. Consecutive calls yield distinct seeds;
// the overall trajectory stays reproducible from the root seed.
func (s *Space) ForkWorkerSeed() int64 {
	return rng.ForkSeed(&s.seed)
}

// GetRandomInitialSketch generates num sketches by unpruned random walks:
// each starts from a root state holding the full registry and mutates up to
// the depth budget or until no rule remains applicable. No deduplication is
// performed; repeated programs are expected and accepted.
func (s *Space) GetRandomInitialSketch(num int) []*State {
	slog.Debug("generating random initial sketches", "num", num)

	result := make([]*State, 0, num)
	for len(result) < num {
		state := NewState(s.initial.Clone(), s.registry)
		for i := 0; i < s.cfg.SketchDepth; i++ {
			state = s.RandomScheduleMutate(state)
			if len(state.ApplicableRules) == 0 {
				break
			}
		}
		slog.Debug("sketch generated",
			"ordinal", len(result),
			"fingerprint", state.Fingerprint(),
		)
		result = append(result, state)
	}
	return result
}

// GetRandomPrunedInitialSketch generates one batch of sketches by visiting
// blocks in probabilistic order, drawing a random per-block step budget,
// and expanding every frontier state through CollectStateTransfer with
// always-on random pruning (prune probability 1: each expanded state is
// replaced by its successors).
//
// The veto rule (last in the registry) is excluded; an empty rule set after
// the exclusion is a configuration error.
func (s *Space) GetRandomPrunedInitialSketch() ([]*State, error) {
	initRules := s.registry[:len(s.registry)-1]
	if len(initRules) == 0 {
		return nil, newConfigError("rule registry", "",
			"no rules remain after excluding the veto rule")
	}

	blockSampler, err := sampler.NewBlockSampler(
		s.initial.BlockNames(), sampler.StrategyProbabilistic, &s.seed)
	if err != nil {
		return nil, err
	}

	frontier := []*State{NewState(s.initial.Clone(), nil)}
	totalSteps := 0
	for blockName := blockSampler.NextBlock(); blockName != ""; blockName = blockSampler.NextBlock() {
		if totalSteps >= s.cfg.SketchDepth {
			break
		}
		steps := rng.SampleInt(0, len(initRules)+1, &s.seed)
		if totalSteps+steps > s.cfg.SketchDepth {
			steps = s.cfg.SketchDepth - totalSteps
		}
		totalSteps += steps

		var next []*State
		for _, state := range frontier {
			ruleSampler, err := sampler.NewRuleSampler(
				initRules, sampler.StrategyProbabilistic, &s.seed)
			if err != nil {
				return nil, err
			}
			next = append(next, s.CollectStateTransfer(state, blockName, ruleSampler, steps, false, 1)...)
		}
		slog.Debug("random-pruned frontier advanced",
			"block", blockName,
			"steps", steps,
			"frontier", len(next),
		)
		frontier = next
	}
	return frontier, nil
}

// GetRulePrunedInitialSketch generates one batch of sketches by visiting
// blocks in reverse declaration order with deterministic traversal,
// expanding each frontier state with unbounded steps, pruned only by each
// rule's own skip-all signal.
func (s *Space) GetRulePrunedInitialSketch() ([]*State, error) {
	initRules := s.registry[:len(s.registry)-1]
	if len(initRules) == 0 {
		return nil, newConfigError("rule registry", "",
			"no rules remain after excluding the veto rule")
	}

	blocks := s.initial.BlockNames()
	reversed := make([]string, len(blocks))
	for i, b := range blocks {
		reversed[len(blocks)-1-i] = b
	}
	blockSampler, err := sampler.NewBlockSampler(reversed, sampler.StrategyTraversal, nil)
	if err != nil {
		return nil, err
	}

	frontier := []*State{NewState(s.initial.Clone(), nil)}
	for blockName := blockSampler.NextBlock(); blockName != ""; blockName = blockSampler.NextBlock() {
		var next []*State
		for _, state := range frontier {
			ruleSampler, err := sampler.NewRuleSampler(initRules, sampler.StrategyTraversal, nil)
			if err != nil {
				return nil, err
			}
			next = append(next, s.CollectStateTransfer(state, blockName, ruleSampler, 0, true, 0)...)
		}
		slog.Debug("rule-pruned frontier advanced",
			"block", blockName,
			"frontier", len(next),
		)
		frontier = next
	}
	return frontier, nil
}

// GetInitialSketch is the public sketch-generation entry. It invokes the
// named pruned strategy repeatedly until num sketches accumulate, taking
// each batch in reverse-generation order and truncating at num. An
// unrecognized strategy aborts before producing any state.
func (s *Space) GetInitialSketch(num int, strategy string) ([]*State, error) {
	slog.Debug("generating initial sketches", "num", num, "strategy", strategy)

	result := make([]*State, 0, num)
	for len(result) < num {
		var (
			batch []*State
			err   error
		)
		switch strategy {
		case StrategyRulePrune:
			batch, err = s.GetRulePrunedInitialSketch()
		case StrategyRandomPrune:
			batch, err = s.GetRandomPrunedInitialSketch()
		default:
			return nil, newConfigError("sketch strategy", strategy,
				"want \"rule_prune\" or \"random_prune\"")
		}
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			// A strategy that produced nothing will produce nothing again;
			// looping forever is worse than reporting it.
			return nil, newConfigError("sketch strategy", strategy,
				"strategy produced no sketches")
		}
		for i := len(batch) - 1; i >= 0 && len(result) < num; i-- {
			result = append(result, batch[i])
		}
	}
	return result, nil
}
