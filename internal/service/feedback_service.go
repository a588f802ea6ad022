package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"trilha-futuro/internal/domain"
	"trilha-futuro/internal/repository"
)

const (
	minFeedbackRunes = 10
	// DashboardFeedbackLimit es la cantidad de feedbacks que muestra el panel.
	DashboardFeedbackLimit = 3
)

var (
	ErrFeedbackServiceNotConfigured = errors.New("feedback service not configured")
	ErrFeedbackEmpty                = errors.New("comment is required")
	ErrFeedbackTooShort             = errors.New("comment must have at least 10 characters")
)

type FeedbackService struct {
	repo repository.FeedbackRepository
}

func NewFeedbackService(repo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

func (s *FeedbackService) Submit(ctx context.Context, userID, comment string) (domain.Feedback, error) {
	if s == nil || s.repo == nil {
		return domain.Feedback{}, ErrFeedbackServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Feedback{}, ErrUserNotFound
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return domain.Feedback{}, ErrFeedbackEmpty
	}
	if utf8.RuneCountInString(comment) < minFeedbackRunes {
		return domain.Feedback{}, ErrFeedbackTooShort
	}

	fb := domain.Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		return domain.Feedback{}, fmt.Errorf("save feedback: %w", err)
	}
	return fb, nil
}

// Recent devuelve los ultimos limit feedbacks del usuario.
func (s *FeedbackService) Recent(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	if s == nil || s.repo == nil {
		return nil, ErrFeedbackServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" || limit <= 0 {
		return []domain.Feedback{}, nil
	}
	items, err := s.repo.ListRecentByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	return items, nil
}
