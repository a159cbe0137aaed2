// Package task implements the stimulus-presentation and response-scoring
// engine shared by the timed attention tasks (CPT, Go/No-Go, N-Back). A run
// is a loop of trials: the sequencer picks a stimulus, the response window
// times the single allowed response, the classifier maps the result to an
// outcome, and the aggregator accumulates run-level statistics.
package task

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRunActive is returned when Run is called while a run is in progress.
	ErrRunActive = errors.New("task: run already active")
	// ErrRunReset is returned from Run when Reset aborts the run.
	ErrRunReset = errors.New("task: run reset")
)

// Config holds the parameters of a single task run. Durations are validated
// at load time; the engine treats a bad config as a programming error.
type Config struct {
	TotalStimuli      int
	TargetProbability float64
	StimulusDuration  time.Duration
	InterTrialGap     time.Duration
	TargetSymbol      string
	Alphabet          []string
	// NBackLevel is 0 for symbol tasks and n for an n-back sequence.
	NBackLevel int
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.TotalStimuli <= 0 {
		return fmt.Errorf("task: totalStimuli must be positive, got %d", c.TotalStimuli)
	}
	if c.TargetProbability < 0 || c.TargetProbability > 1 {
		return fmt.Errorf("task: targetProbability must be in [0,1], got %f", c.TargetProbability)
	}
	if c.StimulusDuration <= 0 {
		return fmt.Errorf("task: stimulusDuration must be positive, got %s", c.StimulusDuration)
	}
	if c.InterTrialGap < 0 {
		return fmt.Errorf("task: interTrialGap must not be negative, got %s", c.InterTrialGap)
	}
	if len(c.Alphabet) == 0 {
		return errors.New("task: alphabet must not be empty")
	}
	if c.NBackLevel > 0 {
		if c.NBackLevel >= c.TotalStimuli {
			return fmt.Errorf("task: nBackLevel %d must be below totalStimuli %d", c.NBackLevel, c.TotalStimuli)
		}
		if len(c.Alphabet) < 2 {
			return errors.New("task: n-back needs at least two symbols")
		}
		return nil
	}
	if c.TargetSymbol == "" {
		return errors.New("task: targetSymbol must not be empty")
	}
	for _, s := range c.Alphabet {
		if s == c.TargetSymbol {
			return fmt.Errorf("task: alphabet must exclude target symbol %q", s)
		}
	}
	return nil
}

// Trial is one stimulus-presentation-and-response cycle.
type Trial struct {
	Index       int       `json:"index"`
	Stimulus    string    `json:"stimulus"`
	IsTarget    bool      `json:"isTarget"`
	PresentedAt time.Time `json:"presentedAt"`
}

// Response records whether (and how fast) the user responded within the
// trial's window. LatencyMs is meaningful only when Occurred is true.
type Response struct {
	Occurred  bool    `json:"occurred"`
	LatencyMs float64 `json:"latencyMs,omitempty"`
}

// Outcome is the classification of a completed trial.
type Outcome int

const (
	Hit Outcome = iota
	Miss
	FalseAlarm
	CorrectRejection
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case FalseAlarm:
		return "false_alarm"
	case CorrectRejection:
		return "correct_rejection"
	default:
		return "unknown"
	}
}

// TrialRecord is the completed trial handed to callbacks and persistence.
type TrialRecord struct {
	Trial    Trial    `json:"trial"`
	Response Response `json:"response"`
	Outcome  Outcome  `json:"outcome"`
}

// RunReport is the read-only projection of RunState handed to the host.
// AvgReactionTimeMs is nil when no hits were recorded, which is distinct
// from a true 0 ms average.
type RunReport struct {
	TrialsCompleted   int       `json:"trialsCompleted"`
	TotalTrials       int       `json:"totalTrials"`
	TotalTargets      int       `json:"totalTargets"`
	TotalNonTargets   int       `json:"totalNonTargets"`
	Hits              int       `json:"hits"`
	Misses            int       `json:"misses"`
	FalseAlarms       int       `json:"falseAlarms"`
	CorrectRejections int       `json:"correctRejections"`
	Accuracy          int       `json:"accuracy"`
	AvgReactionTimeMs *float64  `json:"avgReactionTimeMs"`
	ReactionTimesMs   []float64 `json:"reactionTimesMs"`
}
