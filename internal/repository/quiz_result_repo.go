package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"trilha-futuro/internal/domain"
)

type QuizResultRepository interface {
	Create(ctx context.Context, result domain.QuizResult) error
	ListByUserID(ctx context.Context, userID string) ([]domain.QuizResult, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	Count(ctx context.Context) (int, error)
	CountByProfile(ctx context.Context) ([]domain.ProfileCount, error)
}

type PgQuizResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuizResultRepository(pool *pgxpool.Pool) *PgQuizResultRepository {
	return &PgQuizResultRepository{pool: pool}
}

func (r *PgQuizResultRepository) Create(ctx context.Context, result domain.QuizResult) error {
	const query = `
		INSERT INTO quiz_results (id, user_id, score, profile, taken_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		result.ID,
		result.UserID,
		result.Score,
		string(result.Profile),
		result.TakenAt,
	)
	return err
}

// ListByUserID devuelve el historial del usuario, el mas reciente primero.
func (r *PgQuizResultRepository) ListByUserID(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	const query = `
		SELECT id, user_id, score, profile, taken_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY taken_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.QuizResult
	for rows.Next() {
		var res domain.QuizResult
		var profile string
		if err := rows.Scan(&res.ID, &res.UserID, &res.Score, &profile, &res.TakenAt); err != nil {
			return nil, err
		}
		res.Profile = domain.ProfileKey(profile)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *PgQuizResultRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(id) FROM quiz_results WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PgQuizResultRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(id) FROM quiz_results`).Scan(&n)
	return n, err
}

// CountByProfile agrega todos los resultados por perfil.
func (r *PgQuizResultRepository) CountByProfile(ctx context.Context) ([]domain.ProfileCount, error) {
	const query = `
		SELECT profile, COUNT(id)
		FROM quiz_results
		GROUP BY profile
		ORDER BY profile
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.ProfileCount
	for rows.Next() {
		var profile string
		var pc domain.ProfileCount
		if err := rows.Scan(&profile, &pc.Count); err != nil {
			return nil, err
		}
		pc.Profile = domain.ProfileKey(profile)
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
