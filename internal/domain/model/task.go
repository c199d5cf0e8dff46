package model

// Task is one coding exercise. (CategoryID, TaskNumber) is the lookup key
// used by the question and answer routes.
type Task struct {
	ID            int     `json:"id"`
	CategoryID    int     `json:"category"`
	TaskNumber    int     `json:"task_id"`
	Description   string  `json:"description"`
	StartingCode  *string `json:"starting_code,omitempty"`
	CorrectAnswer string  `json:"-"` // Revealed only after a submission
}
