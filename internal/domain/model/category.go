package model

// Category groups tasks on the landing page. Seeded once, read-only after.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
