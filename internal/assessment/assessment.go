// Package assessment scores the yes/no neurodiversity screening quiz.
// The outcome is a coarse heuristic for tailoring content, explicitly not
// a clinical diagnosis.
package assessment

import "errors"

// Questions are presented in order; answer i belongs to question i.
var Questions = []string{
	"Do you often find it hard to focus on tasks for long periods?",
	"Do you prefer routines and get upset when they change?",
	"Do you struggle with reading or mix up letters/words?",
	"Do you frequently lose track of time or forget appointments?",
	"Do you find social situations overwhelming or hard to navigate?",
	"Do you have difficulty following spoken instructions?",
	"Are you easily distracted by noises or movements around you?",
	"Do you have intense interests in specific topics?",
	"Do you often reverse numbers or struggle with spelling?",
	"Do you feel restless or fidget a lot when sitting still?",
}

// Result categories.
const (
	PredictionADHD     = "ADHD"
	PredictionAutism   = "Autism"
	PredictionDyslexia = "Dyslexia"
	PredictionNone     = "None"
)

// Result is the scored outcome: the winning category and a confidence
// figure per category, in percent.
type Result struct {
	Prediction    string
	Probabilities map[string]float64
}

// Answer values: 1 for yes, 0 for no.
const (
	No  = 0
	Yes = 1
)

var (
	ErrIncomplete   = errors.New("all questions must be answered")
	ErrInvalidValue = errors.New("answers must be yes (1) or no (0)")
)

// Score evaluates a complete answer sheet. Answers map by question index.
// Question indices 0,3,6,9 load on ADHD, 1,4,7 on autism, 2,5,8 on
// dyslexia; a higher-priority category with enough yes answers shadows the
// lower ones, so the same sheet always yields the same single prediction.
func Score(answers []int) (Result, error) {
	if len(answers) != len(Questions) {
		return Result{}, ErrIncomplete
	}
	for _, a := range answers {
		if a != Yes && a != No {
			return Result{}, ErrInvalidValue
		}
	}
	return score(answers), nil
}

func score(answers []int) Result {
	adhd := float64(answers[0] + answers[3] + answers[6] + answers[9])
	autism := float64(answers[1] + answers[4] + answers[7])
	dyslexia := float64(answers[2] + answers[5] + answers[8])

	probs := map[string]float64{
		PredictionADHD:     0,
		PredictionAutism:   0,
		PredictionDyslexia: 0,
		PredictionNone:     0,
	}

	switch {
	case adhd >= 2:
		probs[PredictionADHD] = adhd / 4 * 100
		probs[PredictionAutism] = autism / 3 * 50
		probs[PredictionDyslexia] = dyslexia / 3 * 50
		probs[PredictionNone] = 10
		return Result{Prediction: PredictionADHD, Probabilities: probs}
	case autism >= 1:
		probs[PredictionAutism] = autism / 3 * 100
		probs[PredictionADHD] = adhd / 4 * 50
		probs[PredictionDyslexia] = dyslexia / 3 * 50
		probs[PredictionNone] = 20
		return Result{Prediction: PredictionAutism, Probabilities: probs}
	case dyslexia >= 1:
		probs[PredictionDyslexia] = dyslexia / 3 * 100
		probs[PredictionADHD] = adhd / 4 * 50
		probs[PredictionAutism] = autism / 3 * 50
		probs[PredictionNone] = 20
		return Result{Prediction: PredictionDyslexia, Probabilities: probs}
	default:
		probs[PredictionNone] = 100
		probs[PredictionADHD] = adhd / 4 * 30
		probs[PredictionAutism] = autism / 3 * 30
		probs[PredictionDyslexia] = dyslexia / 3 * 30
		return Result{Prediction: PredictionNone, Probabilities: probs}
	}
}

// RecommendedCategory maps a prediction to the content category used for
// course recommendations.
func RecommendedCategory(prediction string) string {
	switch prediction {
	case PredictionADHD:
		return "Cognitive"
	case PredictionDyslexia:
		return "Reading"
	case PredictionAutism:
		return "Social"
	default:
		return "All"
	}
}
