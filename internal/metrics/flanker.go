package metrics

import (
	"encoding/json"
	"time"

	"cogsuite-go/internal/models"
)

// Flanker test results processing. The task needs a left/right choice per
// trial rather than a single respond signal, so it runs in the browser and
// posts its raw data for scoring.

// FlankerTrial is one raw Flanker trial.
type FlankerTrial struct {
	Congruent    bool    `json:"congruent"`
	Direction    string  `json:"direction"` // direction of the center arrow
	Response     string  `json:"response"`  // direction the user chose
	Correct      bool    `json:"correct"`
	ReactionTime float64 `json:"reactionTime"`
}

// FlankerData represents the raw data from a Flanker test.
type FlankerData struct {
	TestStartTime float64        `json:"testStartTime"`
	TestEndTime   float64        `json:"testEndTime"`
	Trials        []FlankerTrial `json:"trials"`
	Settings      map[string]any `json:"settings"`
}

// CalculateFlankerMetrics scores a Flanker submission. Accuracy and mean RT
// are computed per congruency; the interference cost is the incongruent
// minus congruent mean RT over correct trials.
func CalculateFlankerMetrics(data *FlankerData) *models.FlankerResult {
	var (
		congTotal, congCorrect     int
		incongTotal, incongCorrect int
		congRTSum, incongRTSum     float64
	)

	for _, trial := range data.Trials {
		if trial.Congruent {
			congTotal++
			if trial.Correct {
				congCorrect++
				congRTSum += trial.ReactionTime
			}
		} else {
			incongTotal++
			if trial.Correct {
				incongCorrect++
				incongRTSum += trial.ReactionTime
			}
		}
	}

	result := &models.FlankerResult{
		TotalTrials: len(data.Trials),
		RawData:     serializeFlankerData(data),
		CreatedAt:   time.Now(),
	}
	if congTotal > 0 {
		result.CongruentAccuracy = float64(congCorrect) / float64(congTotal)
	}
	if incongTotal > 0 {
		result.IncongruentAccuracy = float64(incongCorrect) / float64(incongTotal)
	}
	if congCorrect > 0 {
		result.CongruentMeanRT = congRTSum / float64(congCorrect)
	}
	if incongCorrect > 0 {
		result.IncongruentMeanRT = incongRTSum / float64(incongCorrect)
	}
	if congCorrect > 0 && incongCorrect > 0 {
		result.InterferenceCost = result.IncongruentMeanRT - result.CongruentMeanRT
	}
	return result
}

func serializeFlankerData(data *FlankerData) json.RawMessage {
	result, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage("{}")
	}
	return result
}
