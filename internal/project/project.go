// Package project defines the compilation project model shared by the
// store, the assembler and the HTTP layer.
package project

// Project is one article compilation: user notes plus an ordered list
// of wiki article titles.
type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Notes     string   `json:"notes,omitempty"`
	Articles  []string `json:"articles"`
	CreatedAt int64    `json:"created_at,omitempty"` // unix millis
	UpdatedAt int64    `json:"updated_at,omitempty"`
}
