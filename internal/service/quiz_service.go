package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trilha-futuro/internal/domain"
	"trilha-futuro/internal/monitoring"
	"trilha-futuro/internal/repository"
)

// MinQuizAnswers es el minimo de respuestas para calcular un perfil.
const MinQuizAnswers = 5

var (
	ErrQuizServiceNotConfigured = errors.New("quiz service not configured")
	ErrQuizTooFewAnswers        = errors.New("at least 5 answers are required")
)

// QuizService entrega el cuestionario, puntua los envios y guarda el historial.
type QuizService struct {
	results repository.QuizResultRepository
	metrics *monitoring.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewQuizService(results repository.QuizResultRepository, metrics *monitoring.Metrics, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		results: results,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func quizOptions(criativo, analitico, social, organizado string) []domain.QuizOption {
	return []domain.QuizOption{
		{Label: criativo, Value: AnswerCriativo},
		{Label: analitico, Value: AnswerAnalitico},
		{Label: social, Value: AnswerSocial},
		{Label: organizado, Value: AnswerOrganizado},
	}
}

var quizQuestions = []domain.QuizQuestion{
	{
		ID:   "q1",
		Text: "Num trabalho em grupo, qual papel você costuma assumir?",
		Options: quizOptions(
			"Proponho ideias novas",
			"Analiso os dados e os riscos",
			"Cuido da comunicação entre as pessoas",
			"Organizo as tarefas e os prazos",
		),
	},
	{
		ID:   "q2",
		Text: "Qual atividade você faria num sábado livre?",
		Options: quizOptions(
			"Desenhar, escrever ou tocar um instrumento",
			"Resolver um quebra-cabeça ou desafio de lógica",
			"Encontrar amigos ou fazer voluntariado",
			"Arrumar a casa e planejar a semana",
		),
	},
	{
		ID:   "q3",
		Text: "Qual matéria da escola você mais gosta?",
		Options: quizOptions(
			"Artes ou Literatura",
			"Matemática ou Física",
			"Sociologia ou História",
			"Qualquer uma, desde que tenha um bom cronograma",
		),
	},
	{
		ID:   "q4",
		Text: "Diante de um problema difícil, você...",
		Options: quizOptions(
			"Procura uma solução fora do comum",
			"Divide o problema em partes e testa hipóteses",
			"Pede a opinião de outras pessoas",
			"Segue um passo a passo já conhecido",
		),
	},
	{
		ID:   "q5",
		Text: "O que mais te motiva num trabalho?",
		Options: quizOptions(
			"Liberdade para criar",
			"Desafios técnicos",
			"Ajudar pessoas",
			"Estabilidade e processos claros",
		),
	},
	{
		ID:   "q6",
		Text: "Como você prefere aprender algo novo?",
		Options: quizOptions(
			"Experimentando do meu jeito",
			"Estudando a teoria e os números",
			"Conversando e trocando experiências",
			"Com um plano de estudos bem definido",
		),
	},
}

// Questions devuelve una copia del cuestionario estatico.
func (s *QuizService) Questions() []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, 0, len(quizQuestions))
	for _, q := range quizQuestions {
		q.Options = append([]domain.QuizOption(nil), q.Options...)
		out = append(out, q)
	}
	return out
}

// Submit puntua las respuestas y persiste el resultado con el pico como score.
func (s *QuizService) Submit(ctx context.Context, userID string, answers map[string]string) (domain.QuizOutcome, error) {
	if s == nil || s.results == nil {
		return domain.QuizOutcome{}, ErrQuizServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.QuizOutcome{}, ErrUserNotFound
	}
	if len(answers) < MinQuizAnswers {
		return domain.QuizOutcome{}, ErrQuizTooFewAnswers
	}

	tally := ScoreAnswers(answers)
	profile := ClassifyTally(tally)
	result := domain.QuizResult{
		ID:      uuid.NewString(),
		UserID:  userID,
		Score:   tally.Max(),
		Profile: profile,
		TakenAt: s.now(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return domain.QuizOutcome{}, fmt.Errorf("save quiz result: %w", err)
	}

	s.metrics.ObserveQuizOutcome(string(profile))
	s.logger.Info("quiz submitted",
		zap.String("user_id", userID),
		zap.String("profile", string(profile)),
		zap.Int("score", result.Score),
	)

	return domain.QuizOutcome{
		Result:         result,
		Tally:          tally,
		Recommendation: RecommendationOrDefault(profile),
	}, nil
}

// History devuelve los tests del usuario, el mas reciente primero.
func (s *QuizService) History(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	if s == nil || s.results == nil {
		return nil, ErrQuizServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domain.QuizResult{}, nil
	}
	results, err := s.results.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.QuizResult{}
	}
	return results, nil
}
