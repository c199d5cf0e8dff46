package model

// Evaluation is the structured verdict returned by the external judgment
// service for one submission. Transient, never persisted.
type Evaluation struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}
