package services

import (
	"context"
	"errors"
	"fmt"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/ai"
	apperrors "lab-system/pkg/errors"

	"go.uber.org/zap"
)

const chatPrompt = `Ты - ассистент учебной лаборатории. Отвечай кратко и по делу
на вопросы о лабораторном оборудовании и правилах бронирования.

Вопрос: %s`

type ChatServiceInterface interface {
	Ask(ctx context.Context, userID uint64, payload dto.ChatRequestDTO) (*dto.ChatResponseDTO, error)
	History(ctx context.Context, userID uint64, limit uint64) ([]entities.ChatLog, error)
}

// ChatService отвечает на вопросы пользователей через генератор
// и сохраняет каждый обмен в журнал.
type ChatService struct {
	generator   ai.GeneratorInterface
	chatLogRepo repositories.ChatLogRepositoryInterface
	logger      *zap.Logger
}

func NewChatService(
	generator ai.GeneratorInterface,
	chatLogRepo repositories.ChatLogRepositoryInterface,
	logger *zap.Logger,
) ChatServiceInterface {
	return &ChatService{
		generator:   generator,
		chatLogRepo: chatLogRepo,
		logger:      logger,
	}
}

func (s *ChatService) Ask(ctx context.Context, userID uint64, payload dto.ChatRequestDTO) (*dto.ChatResponseDTO, error) {
	answer, err := s.generator.Generate(ctx, fmt.Sprintf(chatPrompt, payload.Message))
	if err != nil {
		var genErr *apperrors.GenerationError
		if errors.As(err, &genErr) {
			s.logger.Error("генератор недоступен", zap.Uint64("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	log := &entities.ChatLog{
		UserID:   userID,
		Message:  payload.Message,
		Response: answer,
	}
	if _, err := s.chatLogRepo.CreateChatLog(ctx, log); err != nil {
		// Ответ уже получен: журнал не должен ломать диалог.
		s.logger.Error("не удалось сохранить запись чата", zap.Uint64("user_id", userID), zap.Error(err))
	}

	return &dto.ChatResponseDTO{Response: answer}, nil
}

func (s *ChatService) History(ctx context.Context, userID uint64, limit uint64) ([]entities.ChatLog, error) {
	if limit == 0 {
		limit = 50
	}
	return s.chatLogRepo.GetChatLogsByUser(ctx, userID, limit)
}
