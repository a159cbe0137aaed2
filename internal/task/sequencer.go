package task

import (
	"math"
	"math/rand"
)

// Sequencer decides, for each trial index, what stimulus to present and
// whether it is a target. Implementations are built once per run from a
// seedable random source so test runs are reproducible.
type Sequencer interface {
	Next(trialIndex int) Trial
	Total() int
	TargetCount() int
}

// SymbolSequencer presents single symbols from a fixed alphabet. The deck is
// planned up front: exactly round(totalStimuli * targetProbability) target
// slots, shuffled, so run totals are exact while any given trial is a target
// with the configured marginal probability.
type SymbolSequencer struct {
	cfg     Config
	plan    []Trial
	targets int
}

// NewSymbolSequencer builds a shuffled stimulus deck for a CPT-style task.
func NewSymbolSequencer(cfg Config, rng *rand.Rand) (*SymbolSequencer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	targets := int(math.Round(float64(cfg.TotalStimuli) * cfg.TargetProbability))
	plan := make([]Trial, cfg.TotalStimuli)
	for i := range plan {
		if i < targets {
			plan[i] = Trial{Stimulus: cfg.TargetSymbol, IsTarget: true}
		} else {
			plan[i] = Trial{Stimulus: cfg.Alphabet[rng.Intn(len(cfg.Alphabet))]}
		}
	}
	rng.Shuffle(len(plan), func(i, j int) { plan[i], plan[j] = plan[j], plan[i] })
	for i := range plan {
		plan[i].Index = i
	}

	return &SymbolSequencer{cfg: cfg, plan: plan, targets: targets}, nil
}

// NewGoNoGoSequencer is a SymbolSequencer where the target is the "go" cue
// and the remaining alphabet holds the no-go cues. Go/No-Go conventionally
// runs with a high target probability, but that is a battery setting, not an
// engine rule.
func NewGoNoGoSequencer(cfg Config, rng *rand.Rand) (*SymbolSequencer, error) {
	return NewSymbolSequencer(cfg, rng)
}

func (s *SymbolSequencer) Next(trialIndex int) Trial { return s.plan[trialIndex] }

func (s *SymbolSequencer) Total() int { return s.cfg.TotalStimuli }

func (s *SymbolSequencer) TargetCount() int { return s.targets }
