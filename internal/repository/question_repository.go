package repository

import (
	"context"
	"fmt"

	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository reads pool entries.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByIDs retrieves the pool entries with the given ids. Missing ids are skipped.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PoolEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question, answer, options, correct_option, tag, difficulty,
		        COALESCE(explanation, ''), owner_id, is_active, created_at, updated_at
		 FROM pool_entries
		 WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.PoolEntry
	for rows.Next() {
		var (
			e       model.PoolEntry
			options *model.Options
			correct *string
		)
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &options, &correct, &e.Tag, &e.Difficulty,
			&e.Explanation, &e.OwnerID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}

		e.Authored, err = model.ParseChoices(options, correct)
		if err != nil {
			return nil, fmt.Errorf("pool entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
