package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"trilha-futuro/internal/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv domain.Conversation) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Conversation, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

func (r *PgConversationRepository) Create(ctx context.Context, conv domain.Conversation) error {
	const query = `
		INSERT INTO chat_conversations (id, user_id, question, reply, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		conv.ID,
		conv.UserID,
		conv.Question,
		conv.Reply,
		conv.CreatedAt,
	)
	return err
}

func (r *PgConversationRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	const query = `
		SELECT id, user_id, question, reply, created_at
		FROM chat_conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Question, &c.Reply, &c.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *PgConversationRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(id) FROM chat_conversations WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
