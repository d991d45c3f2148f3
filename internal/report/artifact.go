package report

import "time"

// Artifact is one file produced by a run.
type Artifact struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Step records one cleaning operation applied before rendering.
type Step struct {
	Op     string `json:"op"`
	Column string `json:"column,omitempty"`
	Status string `json:"status"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}
