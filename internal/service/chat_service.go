package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trilha-futuro/internal/domain"
	"trilha-futuro/internal/monitoring"
	"trilha-futuro/internal/repository"
)

var ErrChatEmptyQuestion = errors.New("question is required")

// ChatService responde preguntas con la base de conocimiento y guarda la
// conversacion cuando hay un usuario autenticado.
type ChatService struct {
	conversations repository.ConversationRepository
	metrics       *monitoring.Metrics
	logger        *zap.Logger
}

func NewChatService(conversations repository.ConversationRepository, metrics *monitoring.Metrics, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		conversations: conversations,
		metrics:       metrics,
		logger:        logger,
	}
}

// Ask nunca falla por errores de persistencia; solo se registran.
func (s *ChatService) Ask(ctx context.Context, userID, question string) (domain.ChatReply, error) {
	question = strings.ToLower(strings.TrimSpace(question))
	if question == "" {
		return domain.ChatReply{}, ErrChatEmptyQuestion
	}

	reply := Respond(question)
	if s == nil {
		return reply, nil
	}
	s.metrics.ObserveChatReply(reply.Topic)

	userID = strings.TrimSpace(userID)
	if userID == "" || s.conversations == nil {
		return reply, nil
	}

	conv := domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Question:  question,
		Reply:     reply.Reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		s.logger.Warn("save conversation failed", zap.Error(err), zap.String("user_id", userID))
	}
	return reply, nil
}
