// Package grading renders pool entries as four-way multiple-choice questions
// and scores finished attempts.
package grading

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/eduhub/examcore/internal/model"
)

// distractorCount is the number of wrong options next to the correct answer.
const distractorCount = 3

// Shuffler permutes n elements uniformly at random. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// LockedRand is a Shuffler safe for concurrent use.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand returns a Shuffler seeded with seed.
func NewLockedRand(seed uint64) *LockedRand {
	return &LockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Shuffle implements Shuffler.
func (r *LockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

// Synthesize returns the multiple-choice rendering of target.
// Entries with authored choices pass through unchanged. For the rest, up to
// three distinct answers of other pool entries become distractors, padded
// with "Not <answer>" and "Option N" when the pool is too small.
func Synthesize(target model.PoolEntry, pool []model.PoolEntry, rng Shuffler) model.Choices {
	if target.Authored != nil {
		return *target.Authored
	}

	correct := target.Answer
	candidates := distractorCandidates(target, pool)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > distractorCount {
		candidates = candidates[:distractorCount]
	}
	distractors := pad(correct, candidates)

	// Slot 0 holds the correct answer until the final shuffle.
	order := []int{0, 1, 2, 3}
	texts := [4]string{correct, distractors[0], distractors[1], distractors[2]}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	var choices model.Choices
	for slot, idx := range order {
		key := model.OptionKeys[slot]
		choices.Options.Set(key, texts[idx])
		if idx == 0 {
			choices.CorrectOption = key
		}
	}
	return choices
}

// distractorCandidates collects the distinct answers of other entries that
// differ from target's answer, in pool order.
func distractorCandidates(target model.PoolEntry, pool []model.PoolEntry) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, e := range pool {
		if e.ID == target.ID || e.Answer == "" || e.Answer == target.Answer {
			continue
		}
		if _, dup := seen[e.Answer]; dup {
			continue
		}
		seen[e.Answer] = struct{}{}
		out = append(out, e.Answer)
	}
	return out
}

// pad fills chosen up to distractorCount deterministically.
func pad(correct string, chosen []string) []string {
	used := map[string]struct{}{correct: {}}
	for _, c := range chosen {
		used[c] = struct{}{}
	}
	add := func(v string) {
		if _, ok := used[v]; ok {
			return
		}
		used[v] = struct{}{}
		chosen = append(chosen, v)
	}

	if len(chosen) < distractorCount {
		add("Not " + correct)
	}
	for n := 1; len(chosen) < distractorCount; n++ {
		add(fmt.Sprintf("Option %d", n))
	}
	return chosen
}
