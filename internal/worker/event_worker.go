package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/metrics"
	"github.com/eduhub/examcore/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	EventBatchSize    = 100
	EventBatchTimeout = 2 * time.Second
	EventPollTimeout  = 1 * time.Second
	// maxEventAttempts bounds requeues of an event that keeps failing to insert.
	maxEventAttempts = 3
)

// EventWorker drains the submission event queue into submission_events.
type EventWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	key  string
	log  zerolog.Logger
}

// NewEventWorker creates a new EventWorker.
func NewEventWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *EventWorker {
	return &EventWorker{
		pool: pool,
		rdb:  rdb,
		key:  config.WorkerKey.SubmissionEventsQueue,
		log:  log.With().Str("component", "event_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes what it holds. Call in a goroutine.
func (w *EventWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EventWorker started")

	batch := make([]eventPayload, 0, EventBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= EventBatchSize || time.Since(lastFlush) >= EventBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, EventPollTimeout, w.key).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			p, err := decodeEvent(item[1])
			if err != nil {
				w.log.Error().Err(err).Msg("Invalid event payload")
				continue
			}

			batch = append(batch, p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with per-event fallback
// ----------------------------------------------------------------

func (w *EventWorker) flushSafe(ctx context.Context, batch []eventPayload) {
	if len(batch) == 0 {
		return
	}

	err := w.bulkInsert(ctx, batch)
	if err == nil {
		metrics.EventsPersisted.Add(float64(len(batch)))
		return
	}
	w.log.Warn().Err(err).Int("size", len(batch)).Msg("bulk event insert failed, using fallback")

	for _, p := range batch {
		if err := w.insertSingle(ctx, p); err != nil {
			w.requeue(ctx, p, err)
			continue
		}
		metrics.EventsPersisted.Inc()
	}
}

func (w *EventWorker) requeue(ctx context.Context, p eventPayload, cause error) {
	p.Attempts++
	logEvt := w.log.Error().Err(cause).
		Str("submission_id", p.SubmissionID.String()).
		Str("event", string(p.Type)).
		Int("attempts", p.Attempts)

	if p.Attempts >= maxEventAttempts {
		logEvt.Msg("dropping submission event")
		return
	}
	logEvt.Msg("insertSingle failed, requeueing")

	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	w.rdb.RPush(ctx, w.key, raw)
}

// ----------------------------------------------------------------
// BULK PostgreSQL INSERT using UNNEST
// ----------------------------------------------------------------

// eventColumns splits a batch into the column arrays bound by bulkInsert.
type eventColumns struct {
	submissionIDs []uuid.UUID
	examIDs       []uuid.UUID
	studentIDs    []uuid.UUID
	types         []string
	questionIDs   []pgtype.UUID
	occurredAts   []time.Time
}

func columnsOf(batch []eventPayload) eventColumns {
	n := len(batch)
	c := eventColumns{
		submissionIDs: make([]uuid.UUID, n),
		examIDs:       make([]uuid.UUID, n),
		studentIDs:    make([]uuid.UUID, n),
		types:         make([]string, n),
		questionIDs:   make([]pgtype.UUID, n),
		occurredAts:   make([]time.Time, n),
	}
	for i, p := range batch {
		c.submissionIDs[i] = p.SubmissionID
		c.examIDs[i] = p.ExamID
		c.studentIDs[i] = p.StudentID
		c.types[i] = string(p.Type)
		if p.QuestionID != nil {
			c.questionIDs[i] = pgtype.UUID{Bytes: [16]byte(*p.QuestionID), Valid: true}
		}
		c.occurredAts[i] = p.OccurredAt
	}
	return c
}

func (w *EventWorker) bulkInsert(ctx context.Context, batch []eventPayload) error {
	c := columnsOf(batch)

	query := `
		INSERT INTO submission_events
			(submission_id, exam_id, student_id, event_type, question_id, occurred_at)
		SELECT
			u.submission_id,
			u.exam_id,
			u.student_id,
			u.event_type,
			u.question_id,
			u.occurred_at
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::uuid[],
			$4::text[],
			$5::uuid[],
			$6::timestamptz[]
		) AS u (submission_id, exam_id, student_id, event_type, question_id, occurred_at)
	`

	_, err := w.pool.Exec(ctx, query,
		c.submissionIDs, c.examIDs, c.studentIDs, c.types, c.questionIDs, c.occurredAts)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single insert
// ----------------------------------------------------------------

func (w *EventWorker) insertSingle(ctx context.Context, p eventPayload) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO submission_events
		     (submission_id, exam_id, student_id, event_type, question_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.SubmissionID, p.ExamID, p.StudentID, string(p.Type), p.QuestionID, p.OccurredAt,
	)
	return err
}

func decodeEvent(raw string) (eventPayload, error) {
	var p eventPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return eventPayload{}, err
	}
	if p.SubmissionID == uuid.Nil {
		return eventPayload{}, fmt.Errorf("event without submission id")
	}
	switch p.Type {
	case model.SubmissionEventStarted, model.SubmissionEventResumed, model.SubmissionEventAnswered,
		model.SubmissionEventExpired, model.SubmissionEventSubmitted:
	default:
		return eventPayload{}, fmt.Errorf("unknown event type %q", p.Type)
	}
	return p, nil
}
