package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/grading"
	"github.com/eduhub/examcore/internal/lock"
	"github.com/eduhub/examcore/internal/metrics"
	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SubmissionStore persists attempts. Lookups return pgx.ErrNoRows when nothing matches;
// Create returns pgx.ErrNoRows when another in-progress attempt already exists.
type SubmissionStore interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	GetInProgress(ctx context.Context, examID, studentID uuid.UUID) (*model.Submission, error)
	GetLatest(ctx context.Context, examID, studentID uuid.UUID) (*model.Submission, error)
	List(ctx context.Context, f model.SubmissionFilter) ([]model.Submission, error)
	// Update runs fn on a locked copy of the submission and persists it if fn returns nil.
	Update(ctx context.Context, id uuid.UUID, fn func(*model.Submission) error) (*model.Submission, error)
}

// ExamStore reads exams.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.ExamSummary, error)
}

// PoolStore reads pool entries. Missing ids are simply absent from the result.
type PoolStore interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PoolEntry, error)
}

// Locker serializes start-exam per student and exam.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// EventPublisher records lifecycle events for later persistence.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.SubmissionEvent) error
}

// SubmissionService handles exam attempts: start, answer, finish and reads.
type SubmissionService struct {
	submissions SubmissionStore
	exams       ExamStore
	pool        PoolStore
	locker      Locker
	events      EventPublisher
	rng         grading.Shuffler
	policy      config.OptionPolicy
	lockTTL     time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissions SubmissionStore,
	exams ExamStore,
	pool PoolStore,
	locker Locker,
	events EventPublisher,
	rng grading.Shuffler,
	cfg *config.Config,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		exams:       exams,
		pool:        pool,
		locker:      locker,
		events:      events,
		rng:         rng,
		policy:      cfg.OptionPolicy,
		lockTTL:     cfg.StartLockTTL,
		now:         time.Now,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// StartResult is returned by Start.
type StartResult struct {
	Submission *model.Submission `json:"submission"`
	Exam       model.ExamView    `json:"exam"`
	Resumed    bool              `json:"resumed"`
}

// AnswerResult is returned by SubmitAnswer.
type AnswerResult struct {
	QuestionID     uuid.UUID       `json:"question_id"`
	SelectedOption model.OptionKey `json:"selected_option"`
	IsCorrect      bool            `json:"is_correct"`
}

// FinishResult is returned by Finish.
type FinishResult struct {
	Submission      *model.Submission      `json:"submission"`
	GradingResult   model.GradingResult    `json:"grading_result"`
	DetailedResults []model.DetailedResult `json:"detailed_results"`
}

// SubmissionView is a submission with its exam header attached.
type SubmissionView struct {
	model.Submission
	Exam *model.ExamSummary `json:"exam,omitempty"`
}

// CompletedSubmission is a submitted attempt with per-answer detail.
type CompletedSubmission struct {
	SubmissionView
	DetailedResults []model.DetailedResult `json:"detailed_results"`
}

// CompletedStats aggregates a student's submitted attempts.
type CompletedStats struct {
	TotalCompleted         int     `json:"total_completed"`
	AverageScore           float64 `json:"average_score"`
	TotalQuestionsAnswered int     `json:"total_questions_answered"`
	TotalCorrectAnswers    int     `json:"total_correct_answers"`
}

// CompletedTests is returned by ListCompleted.
type CompletedTests struct {
	Submissions []CompletedSubmission `json:"submissions"`
	Statistics  CompletedStats        `json:"statistics"`
}

// SubmissionStats aggregates an arbitrary listing. AverageScore covers submitted attempts only.
type SubmissionStats struct {
	Total        int     `json:"total"`
	InProgress   int     `json:"in_progress"`
	Submitted    int     `json:"submitted"`
	Expired      int     `json:"expired"`
	AverageScore float64 `json:"average_score"`
}

// SubmissionListing is returned by ListAll.
type SubmissionListing struct {
	Submissions []SubmissionView `json:"submissions"`
	Statistics  SubmissionStats  `json:"statistics"`
}

// ValidateExamEntries checks entries against the option policy. Under
// require_authored every entry must carry complete authored choices.
func ValidateExamEntries(policy config.OptionPolicy, entries []model.PoolEntry) error {
	if len(entries) == 0 {
		return ErrEmptyExam
	}
	if policy != config.OptionPolicyRequireAuthored {
		return nil
	}
	for _, e := range entries {
		if !e.HasAuthoredOptions() {
			return fmt.Errorf("%w: %s", ErrOptionsRequired, e.ID)
		}
	}
	return nil
}

// Start creates an in-progress attempt for the student, or resumes the existing one.
func (s *SubmissionService) Start(ctx context.Context, examID uuid.UUID, p model.Principal) (*StartResult, error) {
	exam, err := s.loadExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsPublic {
		return nil, ErrExamNotPublic
	}
	if len(exam.EntryIDs) == 0 {
		return nil, ErrEmptyExam
	}

	entries, err := s.resolveEntries(ctx, exam)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, config.CacheKey.StartExamLockKey(examID.String(), p.ID.String()), s.lockTTL)
		if err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				return nil, ErrAttemptBusy
			}
			return nil, fmt.Errorf("acquire start lock: %w", err)
		}
		defer release()
	}

	existing, err := s.submissions.GetInProgress(ctx, examID, p.ID)
	if err == nil {
		return s.resume(ctx, exam, entries, existing), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find in-progress submission: %w", err)
	}

	if err := ValidateExamEntries(s.policy, entries); err != nil {
		return nil, err
	}

	sub := &model.Submission{
		ID:               uuid.New(),
		ExamID:           exam.ID,
		StudentID:        p.ID,
		Status:           model.SubmissionStatusInProgress,
		StartedAt:        s.now().UTC(),
		TotalQuestions:   exam.TotalQuestions,
		Answers:          []model.Answer{},
		GeneratedOptions: make([]model.GeneratedOption, 0, len(entries)),
	}
	for _, e := range entries {
		c := grading.Synthesize(e, entries, s.rng)
		sub.GeneratedOptions = append(sub.GeneratedOptions, model.GeneratedOption{
			QuestionID:    e.ID,
			Options:       c.Options,
			CorrectOption: c.CorrectOption,
		})
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("create submission: %w", err)
		}
		// Lost a race with a concurrent start that bypassed the lock.
		existing, err := s.submissions.GetInProgress(ctx, examID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("reload in-progress submission: %w", err)
		}
		return s.resume(ctx, exam, entries, existing), nil
	}

	s.emit(ctx, sub, model.SubmissionEventStarted, nil)
	s.log.Info().
		Str("submission_id", sub.ID.String()).
		Str("exam_id", exam.ID.String()).
		Str("student_id", p.ID.String()).
		Int("questions", len(sub.GeneratedOptions)).
		Msg("attempt started")

	return &StartResult{Submission: sub, Exam: studentView(exam, entries, sub)}, nil
}

func (s *SubmissionService) resume(ctx context.Context, exam *model.Exam, entries []model.PoolEntry, sub *model.Submission) *StartResult {
	s.emit(ctx, sub, model.SubmissionEventResumed, nil)
	return &StartResult{Submission: sub, Exam: studentView(exam, entries, sub), Resumed: true}
}

// SubmitAnswer records or overwrites the student's answer for one question.
// An attempt found past its time limit is moved to expired and ErrTimeExpired is returned.
func (s *SubmissionService) SubmitAnswer(ctx context.Context, submissionID uuid.UUID, p model.Principal, req model.SubmitAnswerRequest) (*AnswerResult, error) {
	selected := model.OptionKey(req.SelectedOption)
	if !selected.Valid() {
		return nil, ErrInvalidOption
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return nil, ErrInvalidQuestionID
	}

	current, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if current.StudentID != p.ID {
		return nil, ErrNotOwner
	}
	if current.Status != model.SubmissionStatusInProgress {
		return nil, ErrSubmissionClosed
	}

	exam, err := s.loadExam(ctx, current.ExamID)
	if err != nil {
		return nil, err
	}
	if !exam.Contains(questionID) {
		return nil, ErrQuestionNotInExam
	}

	var (
		expired bool
		result  AnswerResult
	)
	updated, err := s.submissions.Update(ctx, submissionID, func(sub *model.Submission) error {
		if sub.Status != model.SubmissionStatusInProgress {
			return ErrSubmissionClosed
		}

		now := s.now().UTC()
		if grading.ElapsedMinutes(sub.StartedAt, now) > exam.TimeLimit {
			sub.Status = model.SubmissionStatusExpired
			expired = true
			return nil
		}

		snap, ok := sub.Snapshot(questionID)
		if !ok {
			return ErrSnapshotMissing
		}

		answer := model.Answer{
			QuestionID:     questionID,
			SelectedOption: selected,
			CorrectOption:  snap.CorrectOption,
			IsCorrect:      grading.IsCorrect(selected, snap.CorrectOption),
			AnsweredAt:     now,
		}
		sub.UpsertAnswer(answer)
		result = AnswerResult{QuestionID: questionID, SelectedOption: selected, IsCorrect: answer.IsCorrect}
		return nil
	})
	if err != nil {
		return nil, s.mapStoreErr(err, ErrSubmissionNotFound, "update submission")
	}

	if expired {
		s.emit(ctx, updated, model.SubmissionEventExpired, nil)
		s.log.Info().
			Str("submission_id", updated.ID.String()).
			Int("time_limit", exam.TimeLimit).
			Msg("attempt expired")
		return nil, ErrTimeExpired
	}

	s.emit(ctx, updated, model.SubmissionEventAnswered, &questionID)
	return &result, nil
}

// Finish regrades every answer, stores the aggregates and closes the attempt.
func (s *SubmissionService) Finish(ctx context.Context, submissionID uuid.UUID, p model.Principal) (*FinishResult, error) {
	current, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if current.StudentID != p.ID {
		return nil, ErrNotOwner
	}
	if current.Status != model.SubmissionStatusInProgress {
		return nil, ErrSubmissionClosed
	}

	exam, err := s.loadExam(ctx, current.ExamID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entriesFor(ctx, []model.Submission{*current})
	if err != nil {
		return nil, err
	}

	var answered int
	updated, err := s.submissions.Update(ctx, submissionID, func(sub *model.Submission) error {
		if sub.Status != model.SubmissionStatusInProgress {
			return ErrSubmissionClosed
		}

		grading.Regrade(sub, entries)
		total, n, correct := grading.Totals(sub, exam.TotalQuestions)
		answered = n

		now := s.now().UTC()
		sub.Status = model.SubmissionStatusSubmitted
		sub.SubmittedAt = &now
		sub.TimeSpent = grading.ElapsedMinutes(sub.StartedAt, now)
		sub.TotalQuestions = total
		sub.CorrectAnswers = correct
		sub.Score = grading.Score(correct, total)
		return nil
	})
	if err != nil {
		return nil, s.mapStoreErr(err, ErrSubmissionNotFound, "finish submission")
	}

	result := model.GradingResult{
		TotalQuestions:   updated.TotalQuestions,
		Answered:         answered,
		Unanswered:       updated.TotalQuestions - answered,
		CorrectAnswers:   updated.CorrectAnswers,
		IncorrectAnswers: answered - updated.CorrectAnswers,
		Score:            updated.Score,
		Percentage:       fmt.Sprintf("%.2f%%", updated.Score),
		TimeSpent:        updated.TimeSpent,
		TimeLimit:        exam.TimeLimit,
	}

	metrics.SubmissionScores.Observe(updated.Score)
	s.emit(ctx, updated, model.SubmissionEventSubmitted, nil)
	s.log.Info().
		Str("submission_id", updated.ID.String()).
		Float64("score", updated.Score).
		Int("correct", updated.CorrectAnswers).
		Int("total", updated.TotalQuestions).
		Msg("attempt submitted")

	return &FinishResult{
		Submission:      updated,
		GradingResult:   result,
		DetailedResults: detailedResults(updated, entries),
	}, nil
}

// Get returns a submission. Students may only read their own.
func (s *SubmissionService) Get(ctx context.Context, submissionID uuid.UUID, p model.Principal) (*SubmissionView, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !p.Role.Staff() && sub.StudentID != p.ID {
		return nil, ErrNotOwner
	}

	views, err := s.withExams(ctx, []model.Submission{*sub})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetLatestByExam returns the caller's most recent attempt at examID.
func (s *SubmissionService) GetLatestByExam(ctx context.Context, examID uuid.UUID, p model.Principal) (*SubmissionView, error) {
	sub, err := s.submissions.GetLatest(ctx, examID, p.ID)
	if err != nil {
		return nil, s.mapStoreErr(err, ErrSubmissionNotFound, "get latest submission")
	}

	views, err := s.withExams(ctx, []model.Submission{*sub})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListMine returns the caller's attempts, newest first.
func (s *SubmissionService) ListMine(ctx context.Context, p model.Principal, examID *uuid.UUID, status *model.SubmissionStatus) ([]SubmissionView, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidFilter
	}

	subs, err := s.submissions.List(ctx, model.SubmissionFilter{
		ExamID:    examID,
		StudentID: &p.ID,
		Status:    status,
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return s.withExams(ctx, subs)
}

// ListCompleted returns the caller's submitted attempts with per-answer detail and totals.
func (s *SubmissionService) ListCompleted(ctx context.Context, p model.Principal, examID *uuid.UUID) (*CompletedTests, error) {
	submitted := model.SubmissionStatusSubmitted
	subs, err := s.submissions.List(ctx, model.SubmissionFilter{
		ExamID:    examID,
		StudentID: &p.ID,
		Status:    &submitted,
		SortBy:    "submitted_at",
	})
	if err != nil {
		return nil, fmt.Errorf("list completed submissions: %w", err)
	}

	views, err := s.withExams(ctx, subs)
	if err != nil {
		return nil, err
	}
	entries, err := s.entriesFor(ctx, subs)
	if err != nil {
		return nil, err
	}

	out := &CompletedTests{Submissions: make([]CompletedSubmission, 0, len(views))}
	var scoreSum float64
	for i := range views {
		v := views[i]
		out.Submissions = append(out.Submissions, CompletedSubmission{
			SubmissionView:  v,
			DetailedResults: detailedResults(&v.Submission, entries),
		})
		scoreSum += v.Score
		out.Statistics.TotalQuestionsAnswered += len(v.Answers)
		out.Statistics.TotalCorrectAnswers += v.CorrectAnswers
	}
	out.Statistics.TotalCompleted = len(views)
	if len(views) > 0 {
		out.Statistics.AverageScore = grading.Round2(scoreSum / float64(len(views)))
	}
	return out, nil
}

// ListAll returns every attempt matching f with status statistics. Staff only.
func (s *SubmissionService) ListAll(ctx context.Context, f model.SubmissionFilter) (*SubmissionListing, error) {
	if f.SortBy != "" && !model.SubmissionSortFields[f.SortBy] {
		return nil, fmt.Errorf("%w: sort_by %q", ErrInvalidFilter, f.SortBy)
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidFilter, *f.Status)
	}

	subs, err := s.submissions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	views, err := s.withExams(ctx, subs)
	if err != nil {
		return nil, err
	}

	stats := SubmissionStats{Total: len(subs)}
	var scoreSum float64
	for _, sub := range subs {
		switch sub.Status {
		case model.SubmissionStatusInProgress:
			stats.InProgress++
		case model.SubmissionStatusSubmitted:
			stats.Submitted++
			scoreSum += sub.Score
		case model.SubmissionStatusExpired:
			stats.Expired++
		}
	}
	if stats.Submitted > 0 {
		stats.AverageScore = grading.Round2(scoreSum / float64(stats.Submitted))
	}

	return &SubmissionListing{Submissions: views, Statistics: stats}, nil
}

// ─── helpers ────────────────────────────────────────────────────────────────

func (s *SubmissionService) loadExam(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err, ErrExamNotFound, "get exam")
	}
	return exam, nil
}

func (s *SubmissionService) loadSubmission(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreErr(err, ErrSubmissionNotFound, "get submission")
	}
	return sub, nil
}

// mapStoreErr turns pgx.ErrNoRows into notFound, passes domain errors through
// and wraps everything else.
func (s *SubmissionService) mapStoreErr(err error, notFound *Error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var domain *Error
	if errors.As(err, &domain) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// resolveEntries loads the exam's entries in exam order.
func (s *SubmissionService) resolveEntries(ctx context.Context, exam *model.Exam) ([]model.PoolEntry, error) {
	found, err := s.pool.ListByIDs(ctx, exam.EntryIDs)
	if err != nil {
		return nil, fmt.Errorf("load exam questions: %w", err)
	}

	byID := make(map[uuid.UUID]model.PoolEntry, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}

	entries := make([]model.PoolEntry, 0, len(exam.EntryIDs))
	for _, id := range exam.EntryIDs {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntryUnresolved, id)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// entriesFor loads every pool entry referenced by the answers or snapshots of subs.
func (s *SubmissionService) entriesFor(ctx context.Context, subs []model.Submission) (map[uuid.UUID]model.PoolEntry, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, sub := range subs {
		for _, a := range sub.Answers {
			add(a.QuestionID)
		}
		for _, g := range sub.GeneratedOptions {
			add(g.QuestionID)
		}
	}

	out := make(map[uuid.UUID]model.PoolEntry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.pool.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load answered questions: %w", err)
	}
	for _, e := range found {
		out[e.ID] = e
	}
	return out, nil
}

func (s *SubmissionService) withExams(ctx context.Context, subs []model.Submission) ([]SubmissionView, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, sub := range subs {
		if _, ok := seen[sub.ExamID]; !ok {
			seen[sub.ExamID] = struct{}{}
			ids = append(ids, sub.ExamID)
		}
	}

	summaries := map[uuid.UUID]model.ExamSummary{}
	if len(ids) > 0 {
		var err error
		summaries, err = s.exams.GetSummaries(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load exam summaries: %w", err)
		}
	}

	views := make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		v := SubmissionView{Submission: sub}
		if sum, ok := summaries[sub.ExamID]; ok {
			v.Exam = &sum
		}
		views = append(views, v)
	}
	return views, nil
}

// emit counts the transition and publishes it. Publishing never fails the caller.
func (s *SubmissionService) emit(ctx context.Context, sub *model.Submission, typ model.SubmissionEventType, questionID *uuid.UUID) {
	metrics.SubmissionTransitions.WithLabelValues(string(typ)).Inc()
	if s.events == nil {
		return
	}

	ev := model.SubmissionEvent{
		SubmissionID: sub.ID,
		ExamID:       sub.ExamID,
		StudentID:    sub.StudentID,
		Type:         typ,
		QuestionID:   questionID,
		OccurredAt:   s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).
			Str("submission_id", sub.ID.String()).
			Str("event", string(typ)).
			Msg("failed to publish submission event")
	}
}

// studentView renders the exam from the attempt's snapshot without correct options.
// Entries added to the exam after the attempt started fall back to their authored
// options; entries with neither are left out because they cannot be answered.
func studentView(exam *model.Exam, entries []model.PoolEntry, sub *model.Submission) model.ExamView {
	view := model.ExamView{
		ExamSummary: exam.Summary(),
		Questions:   make([]model.QuestionForStudent, 0, len(entries)),
	}
	for _, e := range entries {
		var opts model.Options
		if snap, ok := sub.Snapshot(e.ID); ok {
			opts = snap.Options
		} else if e.Authored != nil {
			opts = e.Authored.Options
		} else {
			continue
		}
		view.Questions = append(view.Questions, model.QuestionForStudent{
			ID:         e.ID,
			Question:   e.Question,
			Tag:        e.Tag,
			Difficulty: e.Difficulty,
			Options:    opts,
		})
	}
	return view
}

// detailedResults explains each answer using the snapshot, falling back to the
// live entry's authored options.
func detailedResults(sub *model.Submission, entries map[uuid.UUID]model.PoolEntry) []model.DetailedResult {
	out := make([]model.DetailedResult, 0, len(sub.Answers))
	for _, a := range sub.Answers {
		entry := entries[a.QuestionID]

		var opts model.Options
		if snap, ok := sub.Snapshot(a.QuestionID); ok {
			opts = snap.Options
		} else if entry.Authored != nil {
			opts = entry.Authored.Options
		}

		selectedText, _ := opts.Get(a.SelectedOption)
		correctText, _ := opts.Get(a.CorrectOption)
		out = append(out, model.DetailedResult{
			QuestionID:         a.QuestionID,
			Question:           entry.Question,
			Tag:                entry.Tag,
			Difficulty:         entry.Difficulty,
			Options:            opts,
			SelectedOption:     a.SelectedOption,
			CorrectOption:      a.CorrectOption,
			IsCorrect:          a.IsCorrect,
			SelectedAnswerText: selectedText,
			CorrectAnswerText:  correctText,
		})
	}
	return out
}
