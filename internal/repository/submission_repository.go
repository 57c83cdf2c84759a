package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submissionColumns = `id, exam_id, student_id, status, started_at, submitted_at, time_spent,
	total_questions, correct_answers, score, generated_options`

// sortColumns maps public sort keys to SQL columns.
var sortColumns = map[string]string{
	"started_at":      "started_at",
	"submitted_at":    "submitted_at",
	"score":           "score",
	"correct_answers": "correct_answers",
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SubmissionRepository handles submission and answer data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a new in-progress attempt. If the student already has one for
// the exam, nothing is written and pgx.ErrNoRows is returned.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, exam_id, student_id, status, started_at, total_questions, generated_options)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (exam_id, student_id) WHERE status = 'in_progress' DO NOTHING
		 RETURNING id`,
		s.ID, s.ExamID, s.StudentID, s.Status, s.StartedAt, s.TotalQuestions, s.GeneratedOptions,
	).Scan(&s.ID)
}

// GetByID retrieves a submission with its answers.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	return r.getOne(ctx, r.pool, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
}

// GetInProgress retrieves the student's open attempt at an exam.
func (r *SubmissionRepository) GetInProgress(ctx context.Context, examID, studentID uuid.UUID) (*model.Submission, error) {
	return r.getOne(ctx, r.pool,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE exam_id = $1 AND student_id = $2 AND status = 'in_progress'`,
		examID, studentID)
}

// GetLatest retrieves the student's most recently started attempt at an exam.
func (r *SubmissionRepository) GetLatest(ctx context.Context, examID, studentID uuid.UUID) (*model.Submission, error) {
	return r.getOne(ctx, r.pool,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE exam_id = $1 AND student_id = $2
		 ORDER BY started_at DESC
		 LIMIT 1`,
		examID, studentID)
}

// List retrieves submissions matching f. Unknown sort keys fall back to started_at.
func (r *SubmissionRepository) List(ctx context.Context, f model.SubmissionFilter) ([]model.Submission, error) {
	query, args := buildListQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Submission, error) {
		s, err := scanSubmission(row)
		if err != nil {
			return model.Submission{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return subs, nil
	}

	ids := make([]uuid.UUID, len(subs))
	for i := range subs {
		ids[i] = subs[i].ID
	}
	answers, err := loadAnswers(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		subs[i].Answers = answersOrEmpty(answers[subs[i].ID])
	}
	return subs, nil
}

// Update locks the submission row, applies fn and writes the result back in
// the same transaction. If fn returns an error nothing is written.
func (r *SubmissionRepository) Update(ctx context.Context, id uuid.UUID, fn func(*model.Submission) error) (*model.Submission, error) {
	var out *model.Submission

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		s, err := r.getOne(ctx, tx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		if err := fn(s); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE submissions
			 SET status = $2, submitted_at = $3, time_spent = $4,
			     total_questions = $5, correct_answers = $6, score = $7
			 WHERE id = $1`,
			s.ID, s.Status, s.SubmittedAt, s.TimeSpent, s.TotalQuestions, s.CorrectAnswers, s.Score)
		if err != nil {
			return fmt.Errorf("update submission: %w", err)
		}

		if err := upsertAnswers(ctx, tx, s.ID, s.Answers); err != nil {
			return err
		}

		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SubmissionRepository) getOne(ctx context.Context, q querier, sql string, args ...any) (*model.Submission, error) {
	s, err := scanSubmission(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	answers, err := loadAnswers(ctx, q, []uuid.UUID{s.ID})
	if err != nil {
		return nil, err
	}
	s.Answers = answersOrEmpty(answers[s.ID])
	return s, nil
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	s := &model.Submission{}
	err := row.Scan(&s.ID, &s.ExamID, &s.StudentID, &s.Status, &s.StartedAt, &s.SubmittedAt, &s.TimeSpent,
		&s.TotalQuestions, &s.CorrectAnswers, &s.Score, &s.GeneratedOptions)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func loadAnswers(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]model.Answer, error) {
	rows, err := q.Query(ctx,
		`SELECT submission_id, question_id, selected_option, correct_option, is_correct, answered_at
		 FROM submission_answers
		 WHERE submission_id = ANY($1)
		 ORDER BY submission_id, ordinal`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]model.Answer, len(ids))
	for rows.Next() {
		var (
			subID uuid.UUID
			a     model.Answer
		)
		if err := rows.Scan(&subID, &a.QuestionID, &a.SelectedOption, &a.CorrectOption, &a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, err
		}
		out[subID] = append(out[subID], a)
	}
	return out, rows.Err()
}

// upsertAnswers writes every answer in one statement. The ordinal of an
// existing row is kept so re-answering does not reorder the list.
func upsertAnswers(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID, answers []model.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	n := len(answers)
	questionIDs := make([]uuid.UUID, n)
	ordinals := make([]int32, n)
	selected := make([]string, n)
	correct := make([]string, n)
	isCorrect := make([]bool, n)
	answeredAt := make([]time.Time, n)
	for i, a := range answers {
		questionIDs[i] = a.QuestionID
		ordinals[i] = int32(i)
		selected[i] = string(a.SelectedOption)
		correct[i] = string(a.CorrectOption)
		isCorrect[i] = a.IsCorrect
		answeredAt[i] = a.AnsweredAt
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO submission_answers
		     (submission_id, question_id, ordinal, selected_option, correct_option, is_correct, answered_at)
		 SELECT $1, u.question_id, u.ordinal, u.selected_option, u.correct_option, u.is_correct, u.answered_at
		 FROM UNNEST($2::uuid[], $3::int[], $4::text[], $5::text[], $6::bool[], $7::timestamptz[])
		      AS u(question_id, ordinal, selected_option, correct_option, is_correct, answered_at)
		 ON CONFLICT (submission_id, question_id) DO UPDATE
		 SET selected_option = EXCLUDED.selected_option,
		     correct_option  = EXCLUDED.correct_option,
		     is_correct      = EXCLUDED.is_correct,
		     answered_at     = EXCLUDED.answered_at`,
		submissionID, questionIDs, ordinals, selected, correct, isCorrect, answeredAt)
	if err != nil {
		return fmt.Errorf("upsert answers: %w", err)
	}
	return nil
}

// buildListQuery assembles the filtered, sorted listing query.
func buildListQuery(f model.SubmissionFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.ExamID != nil {
		args = append(args, *f.ExamID)
		where = append(where, fmt.Sprintf("exam_id = $%d", len(args)))
	}
	if f.StudentID != nil {
		args = append(args, *f.StudentID)
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "started_at"
	}
	dir := "DESC NULLS LAST"
	if f.SortAsc {
		dir = "ASC NULLS LAST"
	}

	var b strings.Builder
	b.WriteString("SELECT " + submissionColumns + " FROM submissions")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + col + " " + dir + ", id")
	return b.String(), args
}

func answersOrEmpty(a []model.Answer) []model.Answer {
	if a == nil {
		return []model.Answer{}
	}
	return a
}
