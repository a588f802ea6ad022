package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trilha-futuro/internal/domain"
	"trilha-futuro/internal/repository"
)

var ErrStatsServiceNotConfigured = errors.New("stats service not configured")

// StatsService arma los agregados del landing, del panel y de la API de graficos.
type StatsService struct {
	users         repository.UserRepository
	results       repository.QuizResultRepository
	feedbacks     repository.FeedbackRepository
	conversations repository.ConversationRepository
	logger        *zap.Logger
}

func NewStatsService(
	users repository.UserRepository,
	results repository.QuizResultRepository,
	feedbacks repository.FeedbackRepository,
	conversations repository.ConversationRepository,
	logger *zap.Logger,
) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		users:         users,
		results:       results,
		feedbacks:     feedbacks,
		conversations: conversations,
		logger:        logger,
	}
}

func (s *StatsService) configured() bool {
	return s != nil && s.users != nil && s.results != nil && s.feedbacks != nil && s.conversations != nil
}

// Overview alimenta la pagina publica. Un fallo de base devuelve ceros para
// que la pagina siga cargando.
func (s *StatsService) Overview(ctx context.Context) domain.Overview {
	out := domain.Overview{Distribution: emptyChart()}
	if !s.configured() {
		return out
	}

	var err error
	if out.TotalUsers, err = s.users.Count(ctx); err != nil {
		s.logger.Warn("count users failed", zap.Error(err))
		return domain.Overview{Distribution: emptyChart()}
	}
	if out.TotalTests, err = s.results.Count(ctx); err != nil {
		s.logger.Warn("count quiz results failed", zap.Error(err))
		return domain.Overview{Distribution: emptyChart()}
	}
	if out.Distribution, err = s.ProfileDistribution(ctx); err != nil {
		s.logger.Warn("profile distribution failed", zap.Error(err))
		out.Distribution = emptyChart()
	}
	return out
}

func (s *StatsService) UserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	if !s.configured() {
		return domain.UserStats{}, ErrStatsServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UserStats{}, ErrUserNotFound
	}

	var out domain.UserStats
	var err error
	if out.TotalTests, err = s.results.CountByUserID(ctx, userID); err != nil {
		return domain.UserStats{}, fmt.Errorf("count tests: %w", err)
	}
	if out.TotalFeedbacks, err = s.feedbacks.CountByUserID(ctx, userID); err != nil {
		return domain.UserStats{}, fmt.Errorf("count feedbacks: %w", err)
	}
	if out.TotalConversations, err = s.conversations.CountByUserID(ctx, userID); err != nil {
		return domain.UserStats{}, fmt.Errorf("count conversations: %w", err)
	}
	return out, nil
}

// ProfileDistribution cuenta resultados de todos los usuarios por perfil,
// con la etiqueta capitalizada ("exatas" -> "Exatas").
func (s *StatsService) ProfileDistribution(ctx context.Context) (domain.ChartData, error) {
	if !s.configured() {
		return domain.ChartData{}, ErrStatsServiceNotConfigured
	}
	counts, err := s.results.CountByProfile(ctx)
	if err != nil {
		return domain.ChartData{}, err
	}
	chart := emptyChart()
	caser := cases.Title(language.BrazilianPortuguese)
	for _, pc := range counts {
		chart.Labels = append(chart.Labels, caser.String(string(pc.Profile)))
		chart.Values = append(chart.Values, pc.Count)
	}
	return chart, nil
}

func (s *StatsService) Dashboard(ctx context.Context, user domain.User) (domain.Dashboard, error) {
	if !s.configured() {
		return domain.Dashboard{}, ErrStatsServiceNotConfigured
	}
	if strings.TrimSpace(user.ID) == "" {
		return domain.Dashboard{}, ErrUserNotFound
	}

	history, err := s.results.ListByUserID(ctx, user.ID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list tests: %w", err)
	}
	latest, err := s.feedbacks.ListRecentByUserID(ctx, user.ID, DashboardFeedbackLimit)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list feedbacks: %w", err)
	}
	totalFeedbacks, err := s.feedbacks.CountByUserID(ctx, user.ID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count feedbacks: %w", err)
	}

	if history == nil {
		history = []domain.QuizResult{}
	}
	if latest == nil {
		latest = []domain.Feedback{}
	}
	return domain.Dashboard{
		Name:           user.Name,
		TestHistory:    history,
		LatestFeedback: latest,
		TotalTests:     len(history),
		TotalFeedbacks: totalFeedbacks,
	}, nil
}

func emptyChart() domain.ChartData {
	return domain.ChartData{Labels: []string{}, Values: []int{}}
}
