package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OptionKey is a multiple-choice slot letter.
type OptionKey string

const (
	OptionA OptionKey = "A"
	OptionB OptionKey = "B"
	OptionC OptionKey = "C"
	OptionD OptionKey = "D"
)

// OptionKeys lists the slots in display order.
var OptionKeys = [4]OptionKey{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether k is one of A, B, C, D.
func (k OptionKey) Valid() bool {
	switch k {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Options holds the four choice texts of a question.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the text in slot k.
func (o Options) Get(k OptionKey) (string, bool) {
	switch k {
	case OptionA:
		return o.A, true
	case OptionB:
		return o.B, true
	case OptionC:
		return o.C, true
	case OptionD:
		return o.D, true
	}
	return "", false
}

// Set writes text into slot k. Unknown keys are ignored.
func (o *Options) Set(k OptionKey, text string) {
	switch k {
	case OptionA:
		o.A = text
	case OptionB:
		o.B = text
	case OptionC:
		o.C = text
	case OptionD:
		o.D = text
	}
}

// Complete reports whether every slot carries text.
func (o Options) Complete() bool {
	return o.A != "" && o.B != "" && o.C != "" && o.D != ""
}

// Choices is a rendered multiple-choice question: four options and the correct slot.
type Choices struct {
	Options       Options   `json:"options"`
	CorrectOption OptionKey `json:"correctOption"`
}

// ErrPartialChoices is returned when only one of options/correctOption is present.
var ErrPartialChoices = errors.New("options and correctOption must be set together")

// ParseChoices builds the authored variant of a pool entry from its optional wire fields.
// It returns nil when neither field is set.
func ParseChoices(options *Options, correct *string) (*Choices, error) {
	hasOptions := options != nil && *options != (Options{})
	hasCorrect := correct != nil && *correct != ""

	switch {
	case !hasOptions && !hasCorrect:
		return nil, nil
	case hasOptions != hasCorrect:
		return nil, ErrPartialChoices
	}

	key := OptionKey(*correct)
	if !key.Valid() {
		return nil, fmt.Errorf("invalid correctOption %q", *correct)
	}
	if !options.Complete() {
		return nil, fmt.Errorf("options must define A, B, C and D")
	}
	return &Choices{Options: *options, CorrectOption: key}, nil
}

// Difficulty of a pool entry.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// PoolEntry is a reusable question bank entry (question or flashcard).
// Authored is nil for entries that only carry a canonical answer; those get
// options synthesized when an attempt starts.
type PoolEntry struct {
	ID          uuid.UUID  `json:"id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	Authored    *Choices   `json:"-"`
	Tag         string     `json:"tag"`
	Difficulty  Difficulty `json:"difficulty"`
	Explanation string     `json:"explanation,omitempty"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasAuthoredOptions reports whether the entry carries complete authored choices.
func (e *PoolEntry) HasAuthoredOptions() bool {
	return e.Authored != nil
}
