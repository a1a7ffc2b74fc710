package scanner

import "time"

// Candidate is one media file eligible for resolution.
type Candidate struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Result summarizes the outcome of a filesystem scan.
type Result struct {
	ID         string      `json:"id"`
	Root       string      `json:"root"`
	Candidates []Candidate `json:"candidates"`
	Skipped    int         `json:"skipped"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}
