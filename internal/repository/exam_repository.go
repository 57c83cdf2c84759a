package repository

import (
	"context"

	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository reads exams and their entry lists.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam with its entry ids in position order.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT e.id, e.title, e.description, e.time_limit, e.total_questions, e.is_public,
		        e.owner_id, e.created_at, e.updated_at,
		        ARRAY(SELECT ee.entry_id FROM exam_entries ee
		              WHERE ee.exam_id = e.id
		              ORDER BY ee.position, ee.entry_id)
		 FROM exams e
		 WHERE e.id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.TimeLimit, &e.TotalQuestions, &e.IsPublic,
		&e.OwnerID, &e.CreatedAt, &e.UpdatedAt, &e.EntryIDs)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetSummaries returns exam headers keyed by id. Unknown ids are omitted.
func (r *ExamRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, time_limit, total_questions
		 FROM exams
		 WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]model.ExamSummary, len(ids))
	for rows.Next() {
		var s model.ExamSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.TimeLimit, &s.TotalQuestions); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}
