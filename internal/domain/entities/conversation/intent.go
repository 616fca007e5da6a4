package conversation

import "fmt"

// Analysis is the transient result of classifying one inbound message.
// It is produced once per message, consumed by the intent handler, and
// never persisted.
type Analysis struct {
	Intent           Intent         `json:"intent"`
	Confidence       float64        `json:"confidence"`
	ExtractedParams  map[string]any `json:"extractedParams"`
	RequiresMoreInfo bool           `json:"requiresMoreInfo"`
	NextQuestion     string         `json:"nextQuestion"`
}

func (a *Analysis) String() string {
	return fmt.Sprintf("Analysis{intent=%s, confidence=%.2f, requiresMoreInfo=%t}",
		a.Intent, a.Confidence, a.RequiresMoreInfo)
}
