// Файл: pkg/ai/generator.go
package ai

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"lab-system/pkg/config"
	apperrors "lab-system/pkg/errors"
)

// GeneratorInterface - внешний генератор текстового контента.
// Клиент создается конструктором и передается как зависимость,
// глобального состояния у пакета нет.
type GeneratorInterface interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	llm llms.Model
	cfg config.AIConfig
}

func NewGenerator(cfg config.AIConfig) (GeneratorInterface, error) {
	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.OpenAIKey),
	)
	if err != nil {
		return nil, &apperrors.GenerationError{Err: err}
	}
	return &Generator{llm: llm, cfg: cfg}, nil
}

// Generate выполняет один запрос к модели с таймаутом из конфига.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()

	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", &apperrors.GenerationError{Err: err}
	}
	return strings.TrimSpace(out), nil
}
