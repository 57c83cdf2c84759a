package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/grading"
	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type fakeSubmissions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*model.Submission
	// raceWinner is inserted right before the next Create, which then reports a conflict.
	raceWinner *model.Submission
	updates    int
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{rows: make(map[uuid.UUID]*model.Submission)}
}

func cloneSubmission(s *model.Submission) *model.Submission {
	c := *s
	c.Answers = append([]model.Answer{}, s.Answers...)
	c.GeneratedOptions = append([]model.GeneratedOption{}, s.GeneratedOptions...)
	if s.SubmittedAt != nil {
		t := *s.SubmittedAt
		c.SubmittedAt = &t
	}
	return &c
}

func (f *fakeSubmissions) Create(_ context.Context, sub *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.raceWinner != nil {
		f.rows[f.raceWinner.ID] = cloneSubmission(f.raceWinner)
		f.raceWinner = nil
	}
	for _, r := range f.rows {
		if r.ExamID == sub.ExamID && r.StudentID == sub.StudentID && r.Status == model.SubmissionStatusInProgress {
			return pgx.ErrNoRows
		}
	}
	f.rows[sub.ID] = cloneSubmission(sub)
	return nil
}

func (f *fakeSubmissions) GetByID(_ context.Context, id uuid.UUID) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneSubmission(r), nil
}

func (f *fakeSubmissions) GetInProgress(_ context.Context, examID, studentID uuid.UUID) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ExamID == examID && r.StudentID == studentID && r.Status == model.SubmissionStatusInProgress {
			return cloneSubmission(r), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSubmissions) GetLatest(ctx context.Context, examID, studentID uuid.UUID) (*model.Submission, error) {
	subs, _ := f.List(ctx, model.SubmissionFilter{ExamID: &examID, StudentID: &studentID})
	if len(subs) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &subs[0], nil
}

func (f *fakeSubmissions) List(_ context.Context, flt model.SubmissionFilter) ([]model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Submission
	for _, r := range f.rows {
		if flt.ExamID != nil && r.ExamID != *flt.ExamID {
			continue
		}
		if flt.StudentID != nil && r.StudentID != *flt.StudentID {
			continue
		}
		if flt.Status != nil && r.Status != *flt.Status {
			continue
		}
		out = append(out, *cloneSubmission(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (f *fakeSubmissions) Update(_ context.Context, id uuid.UUID, fn func(*model.Submission) error) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	work := cloneSubmission(r)
	if err := fn(work); err != nil {
		return nil, err
	}
	f.rows[id] = cloneSubmission(work)
	f.updates++
	return work, nil
}

func (f *fakeSubmissions) get(id uuid.UUID) *model.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSubmission(f.rows[id])
}

type fakeExams map[uuid.UUID]*model.Exam

func (f fakeExams) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	e, ok := f[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c := *e
	c.EntryIDs = append([]uuid.UUID{}, e.EntryIDs...)
	return &c, nil
}

func (f fakeExams) GetSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]model.ExamSummary, error) {
	out := make(map[uuid.UUID]model.ExamSummary, len(ids))
	for _, id := range ids {
		if e, ok := f[id]; ok {
			out[id] = e.Summary()
		}
	}
	return out, nil
}

type fakePool map[uuid.UUID]model.PoolEntry

func (f fakePool) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.PoolEntry, error) {
	var out []model.PoolEntry
	for _, id := range ids {
		if e, ok := f[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLocker struct {
	err      error
	acquired int
	released int
}

func (l *fakeLocker) Acquire(_ context.Context, _ string, _ time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() { l.released++ }, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	err    error
	events []model.SubmissionEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev model.SubmissionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) types() []model.SubmissionEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SubmissionEventType, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fixture wires a SubmissionService over in-memory fakes.
type fixture struct {
	svc     *SubmissionService
	subs    *fakeSubmissions
	exams   fakeExams
	pool    fakePool
	locker  *fakeLocker
	events  *fakeEvents
	clock   *fakeClock
	student model.Principal
}

func newFixture(policy config.OptionPolicy) *fixture {
	f := &fixture{
		subs:    newFakeSubmissions(),
		exams:   fakeExams{},
		pool:    fakePool{},
		locker:  &fakeLocker{},
		events:  &fakeEvents{},
		clock:   &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		student: model.Principal{ID: uuid.New(), Role: model.RoleStudent},
	}
	cfg := &config.Config{OptionPolicy: policy, StartLockTTL: 5 * time.Second}
	f.svc = NewSubmissionService(f.subs, f.exams, f.pool, f.locker, f.events, grading.NewLockedRand(1), cfg, zerolog.Nop())
	f.svc.now = f.clock.Now
	return f
}

// addEntry registers a pool entry. A non-nil authored gives it fixed choices.
func (f *fixture) addEntry(question, answer string, authored *model.Choices) model.PoolEntry {
	e := model.PoolEntry{
		ID:         uuid.New(),
		Question:   question,
		Answer:     answer,
		Authored:   authored,
		Tag:        "math",
		Difficulty: model.DifficultyEasy,
		IsActive:   true,
	}
	f.pool[e.ID] = e
	return e
}

func (f *fixture) addExam(public bool, timeLimit int, entries ...model.PoolEntry) *model.Exam {
	e := &model.Exam{
		ID:        uuid.New(),
		Title:     "Arithmetic",
		TimeLimit: timeLimit,
		IsPublic:  public,
		OwnerID:   uuid.New(),
	}
	for _, entry := range entries {
		e.EntryIDs = append(e.EntryIDs, entry.ID)
	}
	e.TotalQuestions = len(e.EntryIDs)
	f.exams[e.ID] = e
	return e
}

// wrongOption returns a slot other than correct.
func wrongOption(correct model.OptionKey) model.OptionKey {
	if correct == model.OptionA {
		return model.OptionB
	}
	return model.OptionA
}

var errBoom = errors.New("boom")
