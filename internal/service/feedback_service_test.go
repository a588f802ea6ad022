package service

import (
	"context"
	"errors"
	"testing"

	"trilha-futuro/internal/domain"
)

type mockFeedbackRepo struct {
	created   []domain.Feedback
	createErr error
	listErr   error
	lastLimit int
}

func (m *mockFeedbackRepo) Create(_ context.Context, fb domain.Feedback) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, fb)
	return nil
}

func (m *mockFeedbackRepo) ListRecentByUserID(_ context.Context, userID string, limit int) ([]domain.Feedback, error) {
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Feedback
	for i := len(m.created) - 1; i >= 0 && len(out) < limit; i-- {
		if m.created[i].UserID == userID {
			out = append(out, m.created[i])
		}
	}
	return out, nil
}

func (m *mockFeedbackRepo) CountByUserID(_ context.Context, userID string) (int, error) {
	n := 0
	for _, fb := range m.created {
		if fb.UserID == userID {
			n++
		}
	}
	return n, nil
}

func TestFeedbackServiceSubmit(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    error
	}{
		{"empty", "", ErrFeedbackEmpty},
		{"whitespace", "    ", ErrFeedbackEmpty},
		{"nine runes", "ótimo app", ErrFeedbackTooShort},
		{"padded short", "   curtinho   ", ErrFeedbackTooShort},
		{"ten runes with accents", "ção ção ça", nil},
		{"regular", "Gostei muito das trilhas!", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFeedbackRepo{}
			svc := NewFeedbackService(repo)
			fb, err := svc.Submit(context.Background(), "u1", tt.comment)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.want != nil {
				if len(repo.created) != 0 {
					t.Fatalf("expected nothing stored")
				}
				return
			}
			if fb.ID == "" || fb.UserID != "u1" || fb.CreatedAt.IsZero() {
				t.Fatalf("unexpected feedback: %+v", fb)
			}
			if len(repo.created) != 1 {
				t.Fatalf("expected stored feedback")
			}
		})
	}
}

func TestFeedbackServiceRecent(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo)
	for _, c := range []string{"primeiro comentário", "segundo comentário", "terceiro comentário", "quarto comentário"} {
		if _, err := svc.Submit(context.Background(), "u1", c); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	items, err := svc.Recent(context.Background(), "u1", DashboardFeedbackLimit)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(items) != 3 || items[0].Comment != "quarto comentário" {
		t.Fatalf("expected latest 3 newest first, got %+v", items)
	}
	if repo.lastLimit != 3 {
		t.Fatalf("expected limit 3 passed to repo, got %d", repo.lastLimit)
	}

	none, err := svc.Recent(context.Background(), "u1", 0)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty slice for zero limit, got %v, %v", none, err)
	}
}
