package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates attempt states.
type SubmissionStatus string

const (
	SubmissionStatusInProgress SubmissionStatus = "in_progress"
	SubmissionStatusSubmitted  SubmissionStatus = "submitted"
	SubmissionStatusExpired    SubmissionStatus = "expired"
)

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusInProgress, SubmissionStatusSubmitted, SubmissionStatusExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionStatusSubmitted || s == SubmissionStatusExpired
}

// CanTransition reports whether the attempt state machine allows from -> to.
func CanTransition(from, to SubmissionStatus) bool {
	return from == SubmissionStatusInProgress && to.Terminal()
}

// Answer is one recorded response, unique per question within a submission.
type Answer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption OptionKey `json:"selected_option"`
	CorrectOption  OptionKey `json:"correct_option"`
	IsCorrect      bool      `json:"is_correct"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// GeneratedOption is the frozen rendering of one question captured at attempt start.
type GeneratedOption struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Options       Options   `json:"options"`
	CorrectOption OptionKey `json:"correctOption"`
}

// Submission is one student's attempt at an exam.
type Submission struct {
	ID               uuid.UUID         `json:"id"`
	ExamID           uuid.UUID         `json:"exam_id"`
	StudentID        uuid.UUID         `json:"student_id"`
	Status           SubmissionStatus  `json:"status"`
	StartedAt        time.Time         `json:"started_at"`
	SubmittedAt      *time.Time        `json:"submitted_at,omitempty"`
	TimeSpent        int               `json:"time_spent"`
	TotalQuestions   int               `json:"total_questions"`
	CorrectAnswers   int               `json:"correct_answers"`
	Score            float64           `json:"score"`
	Answers          []Answer          `json:"answers"`
	GeneratedOptions []GeneratedOption `json:"generatedOptions"`
}

// Snapshot returns the frozen rendering for questionID.
func (s *Submission) Snapshot(questionID uuid.UUID) (*GeneratedOption, bool) {
	for i := range s.GeneratedOptions {
		if s.GeneratedOptions[i].QuestionID == questionID {
			return &s.GeneratedOptions[i], true
		}
	}
	return nil, false
}

// UpsertAnswer overwrites the answer for a.QuestionID or appends it.
func (s *Submission) UpsertAnswer(a Answer) {
	for i := range s.Answers {
		if s.Answers[i].QuestionID == a.QuestionID {
			s.Answers[i] = a
			return
		}
	}
	s.Answers = append(s.Answers, a)
}

// SubmitAnswerRequest is the payload for recording an answer.
type SubmitAnswerRequest struct {
	QuestionID     string `json:"question_id" binding:"required,uuid"`
	SelectedOption string `json:"selected_option" binding:"required,option_letter"`
}

// GradingResult holds the aggregates computed when an attempt is finished.
type GradingResult struct {
	TotalQuestions   int     `json:"total_questions"`
	Answered         int     `json:"answered"`
	Unanswered       int     `json:"unanswered"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Score            float64 `json:"score"`
	Percentage       string  `json:"percentage"`
	TimeSpent        int     `json:"time_spent"`
	TimeLimit        int     `json:"time_limit"`
}

// DetailedResult explains grading for a single answered question.
type DetailedResult struct {
	QuestionID         uuid.UUID  `json:"question_id"`
	Question           string     `json:"question"`
	Tag                string     `json:"tag,omitempty"`
	Difficulty         Difficulty `json:"difficulty,omitempty"`
	Options            Options    `json:"options"`
	SelectedOption     OptionKey  `json:"selected_option"`
	CorrectOption      OptionKey  `json:"correct_option"`
	IsCorrect          bool       `json:"is_correct"`
	SelectedAnswerText string     `json:"selected_answer_text"`
	CorrectAnswerText  string     `json:"correct_answer_text"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	ExamID    *uuid.UUID
	StudentID *uuid.UUID
	Status    *SubmissionStatus
	SortBy    string
	SortAsc   bool
}

// Sortable submission columns.
var SubmissionSortFields = map[string]bool{
	"started_at":      true,
	"submitted_at":    true,
	"score":           true,
	"correct_answers": true,
}

// SubmissionEventType names a lifecycle transition.
type SubmissionEventType string

const (
	SubmissionEventStarted   SubmissionEventType = "started"
	SubmissionEventResumed   SubmissionEventType = "resumed"
	SubmissionEventAnswered  SubmissionEventType = "answered"
	SubmissionEventExpired   SubmissionEventType = "expired"
	SubmissionEventSubmitted SubmissionEventType = "submitted"
)

// SubmissionEvent is an audit record of one lifecycle transition.
type SubmissionEvent struct {
	SubmissionID uuid.UUID           `json:"submission_id"`
	ExamID       uuid.UUID           `json:"exam_id"`
	StudentID    uuid.UUID           `json:"student_id"`
	Type         SubmissionEventType `json:"type"`
	QuestionID   *uuid.UUID          `json:"question_id,omitempty"`
	OccurredAt   time.Time           `json:"occurred_at"`
}
