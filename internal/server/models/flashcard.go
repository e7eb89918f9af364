package models

import "time"

// Flashcard belongs to a page. The review bookkeeping fields
// (LastReviewedAt, NextReviewAt, ReviewCount, MasteryScore) are stored and
// returned as-is; no scheduling algorithm acts on them here.
type Flashcard struct {
	ID             string
	PageID         string
	UserID         string
	Question       string
	Answer         string
	LastReviewedAt *time.Time
	NextReviewAt   time.Time
	ReviewCount    int
	MasteryScore   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
