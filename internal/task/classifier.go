package task

// Classify maps a completed trial and its response to an outcome. Pure and
// total: every (isTarget, responded) pair has exactly one outcome.
func Classify(trial Trial, response Response) Outcome {
	switch {
	case trial.IsTarget && response.Occurred:
		return Hit
	case trial.IsTarget && !response.Occurred:
		return Miss
	case !trial.IsTarget && response.Occurred:
		return FalseAlarm
	default:
		return CorrectRejection
	}
}
