package grading

import (
	"math"
	"time"

	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
)

// IsCorrect reports whether the selected slot matches the correct one.
func IsCorrect(selected, correct model.OptionKey) bool {
	return selected == correct
}

// Score is the percentage of correct answers rounded to two decimals.
// A zero total scores 0.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(correct) / float64(total) * 100)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ElapsedMinutes is the number of whole minutes between start and now.
func ElapsedMinutes(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// Regrade recomputes every answer against the snapshot, falling back to the
// authored choices of the live pool entry. Answers with no known correct
// option are left untouched.
func Regrade(sub *model.Submission, entries map[uuid.UUID]model.PoolEntry) {
	for i := range sub.Answers {
		a := &sub.Answers[i]

		var correct model.OptionKey
		if snap, ok := sub.Snapshot(a.QuestionID); ok {
			correct = snap.CorrectOption
		} else if e, ok := entries[a.QuestionID]; ok && e.Authored != nil {
			correct = e.Authored.CorrectOption
		}
		if correct == "" {
			continue
		}
		a.CorrectOption = correct
		a.IsCorrect = IsCorrect(a.SelectedOption, correct)
	}
}

// Totals computes the finish-time aggregates. examTotal is authoritative but
// never below the attempt's own counts.
func Totals(sub *model.Submission, examTotal int) (total, answered, correct int) {
	answered = len(sub.Answers)
	for _, a := range sub.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	total = max(examTotal, sub.TotalQuestions, answered)
	return total, answered, correct
}
