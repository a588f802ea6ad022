package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"trilha-futuro/internal/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) error
	ListRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Feedback, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) error {
	const query = `
		INSERT INTO feedbacks (id, user_id, comment, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.UserID,
		feedback.Comment,
		feedback.CreatedAt,
	)
	return err
}

func (r *PgFeedbackRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	const query = `
		SELECT id, user_id, comment, created_at
		FROM feedbacks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *PgFeedbackRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(id) FROM feedbacks WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
