package task

import (
	"fmt"
	"math"
	"math/rand"
)

// NBackSequencer presents a symbol stream where a trial is a target exactly
// when its stimulus matches the stimulus n positions back. The first n
// trials can never be targets, so target slots are drawn from [n, total).
type NBackSequencer struct {
	cfg     Config
	plan    []Trial
	targets int
}

// NewNBackSequencer plans an n-back stream with exactly
// round(totalStimuli * targetProbability) match positions.
func NewNBackSequencer(cfg Config, rng *rand.Rand) (*NBackSequencer, error) {
	if cfg.NBackLevel <= 0 {
		return nil, fmt.Errorf("task: n-back sequencer needs nBackLevel > 0, got %d", cfg.NBackLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.NBackLevel
	targets := int(math.Round(float64(cfg.TotalStimuli) * cfg.TargetProbability))
	if targets > cfg.TotalStimuli-n {
		return nil, fmt.Errorf("task: %d targets do not fit in %d eligible n-back positions", targets, cfg.TotalStimuli-n)
	}

	// Choose which eligible positions are matches.
	eligible := make([]int, 0, cfg.TotalStimuli-n)
	for i := n; i < cfg.TotalStimuli; i++ {
		eligible = append(eligible, i)
	}
	rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	isMatch := make(map[int]bool, targets)
	for _, idx := range eligible[:targets] {
		isMatch[idx] = true
	}

	// Symbols must be generated in order because each depends on the one
	// n positions back.
	plan := make([]Trial, cfg.TotalStimuli)
	for i := range plan {
		var sym string
		switch {
		case i < n:
			sym = cfg.Alphabet[rng.Intn(len(cfg.Alphabet))]
		case isMatch[i]:
			sym = plan[i-n].Stimulus
		default:
			sym = drawExcluding(cfg.Alphabet, plan[i-n].Stimulus, rng)
		}
		plan[i] = Trial{Index: i, Stimulus: sym, IsTarget: isMatch[i]}
	}

	return &NBackSequencer{cfg: cfg, plan: plan, targets: targets}, nil
}

func drawExcluding(alphabet []string, excluded string, rng *rand.Rand) string {
	for {
		s := alphabet[rng.Intn(len(alphabet))]
		if s != excluded {
			return s
		}
	}
}

func (s *NBackSequencer) Next(trialIndex int) Trial { return s.plan[trialIndex] }

func (s *NBackSequencer) Total() int { return s.cfg.TotalStimuli }

func (s *NBackSequencer) TargetCount() int { return s.targets }
