// battery.go
package models

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"cogsuite-go/internal/task"

	"gopkg.in/yaml.v3"
)

// Task kinds. Engine kinds run server-side on the trial-loop engine;
// submission kinds run in the browser and post raw data for scoring.
const (
	KindCPT     = "cpt"
	KindGoNoGo  = "gonogo"
	KindNBack   = "nback"
	KindFlanker = "flanker"
	KindTMT     = "tmt"
)

// TaskSettings mirrors the per-task parameter block in tasks.yaml.
type TaskSettings struct {
	TotalStimuli       int      `yaml:"total_stimuli"`
	TargetProbability  float64  `yaml:"target_probability"`
	StimulusDurationMs int      `yaml:"stimulus_duration_ms"`
	InterTrialGapMs    int      `yaml:"inter_trial_gap_ms"`
	TargetSymbol       string   `yaml:"target_symbol"`
	Alphabet           []string `yaml:"alphabet"`
	NBackLevel         int      `yaml:"n_back_level,omitempty"`
}

// TaskDef describes one task of the battery.
type TaskDef struct {
	Key         string       `yaml:"key"`
	Name        string       `yaml:"name"`
	Kind        string       `yaml:"kind"`
	Description string       `yaml:"description"`
	Settings    TaskSettings `yaml:"settings"`
}

// Battery holds the full ordered task list.
type Battery struct {
	Tasks []TaskDef `yaml:"tasks"`
}

// IsEngineTask reports whether the task runs on the server-side engine.
func (t TaskDef) IsEngineTask() bool {
	switch t.Kind {
	case KindCPT, KindGoNoGo, KindNBack:
		return true
	}
	return false
}

// EngineConfig converts the yaml settings into an engine configuration.
func (t TaskDef) EngineConfig() task.Config {
	return task.Config{
		TotalStimuli:      t.Settings.TotalStimuli,
		TargetProbability: t.Settings.TargetProbability,
		StimulusDuration:  time.Duration(t.Settings.StimulusDurationMs) * time.Millisecond,
		InterTrialGap:     time.Duration(t.Settings.InterTrialGapMs) * time.Millisecond,
		TargetSymbol:      t.Settings.TargetSymbol,
		Alphabet:          t.Settings.Alphabet,
		NBackLevel:        t.Settings.NBackLevel,
	}
}

// LoadBattery reads and parses the tasks.yaml file. Bad task parameters are
// a configuration error and fail the load, never a run.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battery file: %w", err)
	}

	var battery Battery
	if err := yaml.Unmarshal(data, &battery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal battery YAML: %w", err)
	}
	if len(battery.Tasks) == 0 {
		return nil, fmt.Errorf("battery %s defines no tasks", path)
	}

	seen := make(map[string]bool, len(battery.Tasks))
	for _, t := range battery.Tasks {
		if t.Key == "" {
			return nil, fmt.Errorf("battery task %q has no key", t.Name)
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("battery task key %q is duplicated", t.Key)
		}
		seen[t.Key] = true
		if t.IsEngineTask() {
			if err := t.EngineConfig().Validate(); err != nil {
				return nil, fmt.Errorf("battery task %q: %w", t.Key, err)
			}
		}
	}

	return &battery, nil
}

// TaskByKey looks a task up by its battery key.
func (b *Battery) TaskByKey(key string) (TaskDef, bool) {
	for _, t := range b.Tasks {
		if t.Key == key {
			return t, true
		}
	}
	return TaskDef{}, false
}

// ShuffleTasks randomizes the presentation order of the battery.
func ShuffleTasks(tasks []TaskDef) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(tasks), func(i, j int) {
		tasks[i], tasks[j] = tasks[j], tasks[i]
	})
}
