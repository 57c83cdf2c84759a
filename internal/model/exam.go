package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam is a timed set of pool entries. TotalQuestions mirrors len(EntryIDs)
// and is recomputed by the database whenever the entry list changes.
type Exam struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	EntryIDs       []uuid.UUID `json:"questions"`
	TimeLimit      int         `json:"time_limit"`
	TotalQuestions int         `json:"total_questions"`
	IsPublic       bool        `json:"isPublic"`
	OwnerID        uuid.UUID   `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Contains reports whether entryID is part of the exam.
func (e *Exam) Contains(entryID uuid.UUID) bool {
	for _, id := range e.EntryIDs {
		if id == entryID {
			return true
		}
	}
	return false
}

// ExamSummary is the exam header embedded in submission listings.
type ExamSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	TimeLimit      int       `json:"time_limit"`
	TotalQuestions int       `json:"total_questions"`
}

// Summary returns the exam header.
func (e *Exam) Summary() ExamSummary {
	return ExamSummary{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		TimeLimit:      e.TimeLimit,
		TotalQuestions: e.TotalQuestions,
	}
}

// ExamView is the exam as sent to a student taking it (no correct answers).
type ExamView struct {
	ExamSummary
	Questions []QuestionForStudent `json:"questions"`
}

// QuestionForStudent is a question without the correct answer, sent to students.
type QuestionForStudent struct {
	ID         uuid.UUID  `json:"id"`
	Question   string     `json:"question"`
	Tag        string     `json:"tag"`
	Difficulty Difficulty `json:"difficulty"`
	Options    Options    `json:"options"`
}
