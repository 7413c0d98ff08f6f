package domain

import "time"

// Project is a writing project moving through the wizard steps: characters,
// plot, synopsis, chapter breakdown, drafting, export.
type Project struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description,omitempty" db:"description"`
	Characters  []Character `json:"characters"`
	Plot        *Plot       `json:"plot,omitempty"`
	Synopsis    string      `json:"synopsis,omitempty" db:"synopsis"`
	Chapters    []Chapter   `json:"chapters"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// Character is a cast member designed in the first wizard step.
type Character struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Age         int    `json:"age,omitempty" db:"age"`
	Description string `json:"description" db:"description"`
	Role        string `json:"role" db:"role"`
	Personality string `json:"personality" db:"personality"`
	Background  string `json:"background" db:"background"`
}

// Plot captures the structural design of the story.
type Plot struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Genre      string `json:"genre"`
	Theme      string `json:"theme"`
	Setting    string `json:"setting"`
	Conflict   string `json:"conflict"`
	Resolution string `json:"resolution"`
	Acts       []Act  `json:"acts"`
}

// Act is a structural unit within a plot.
type Act struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// Chapter holds drafted prose.
type Chapter struct {
	ID        string `json:"id" db:"id"`
	ProjectID string `json:"-" db:"project_id"`
	Title     string `json:"title" db:"title"`
	Content   string `json:"content" db:"content"`
	Order     int    `json:"order" db:"chapter_order"`
	WordCount int    `json:"word_count" db:"word_count"`
}
