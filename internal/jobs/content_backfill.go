package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lab-system/internal/entities"
	"lab-system/internal/events"
	"lab-system/internal/repositories"
	"lab-system/pkg/ai"
	"lab-system/pkg/config"
	"lab-system/pkg/eventbus"

	"github.com/aarondl/null/v8"
)

const descriptionPrompt = `Напиши краткое (2-3 предложения) описание лабораторного
оборудования "%s" для каталога учебной лаборатории. Характеристики: %s`

const usageTipsPrompt = `Дай 3-4 кратких совета по безопасной и эффективной работе
с лабораторным оборудованием "%s". Характеристики: %s`

// ContentBackfillJob дозаполняет сгенерированные описания оборудования.
// Работает и по расписанию (пакетный обход), и по событию регистрации
// новой единицы. Между обращениями к генератору выдерживается пауза,
// чтобы не упереться в лимиты провайдера.
type ContentBackfillJob struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	generator     ai.GeneratorInterface
	cfg           config.AIConfig
	logger        *zap.Logger
}

func NewContentBackfillJob(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	generator ai.GeneratorInterface,
	cfg config.AIConfig,
	logger *zap.Logger,
) *ContentBackfillJob {
	return &ContentBackfillJob{
		equipmentRepo: equipmentRepo,
		generator:     generator,
		cfg:           cfg,
		logger:        logger,
	}
}

func (j *ContentBackfillJob) Name() string { return "content_backfill" }

// Run обходит оборудование с незаполненными полями. Сбой генерации одной
// единицы логируется и не прерывает пакет; успешно сгенерированные поля
// сохраняются даже при неудаче соседнего.
func (j *ContentBackfillJob) Run(ctx context.Context) error {
	equipments, err := j.equipmentRepo.FindMissingAIContent(ctx)
	if err != nil {
		return err
	}

	var processed, failed int
	for i := range equipments {
		if ctx.Err() != nil {
			break
		}
		if err := j.backfillOne(ctx, &equipments[i]); err != nil {
			failed++
			j.logger.Error("не удалось сгенерировать контент для оборудования",
				zap.Uint64("equipment_id", equipments[i].ID),
				zap.Error(err),
			)
		} else {
			processed++
		}
	}

	j.logger.Info("дозаполнение описаний завершено",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
	)
	return nil
}

// Register подписывает задачу на регистрацию нового оборудования.
func (j *ContentBackfillJob) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentCreatedName, j.handleEquipmentCreated)
}

func (j *ContentBackfillJob) handleEquipmentCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentCreatedEvent)
	if !ok {
		return nil
	}

	equipment, err := j.equipmentRepo.FindEquipment(ctx, e.EquipmentID)
	if err != nil {
		return fmt.Errorf("оборудование для генерации не найдено: %w", err)
	}
	return j.backfillOne(ctx, equipment)
}

// backfillOne генерирует только отсутствующие поля и сохраняет каждое
// успешное независимо.
func (j *ContentBackfillJob) backfillOne(ctx context.Context, equipment *entities.Equipment) error {
	var aiDescription, usageTips null.String
	var firstErr error

	if !equipment.AIDescription.Valid {
		text, err := j.generate(ctx, descriptionPrompt, equipment)
		if err != nil {
			firstErr = err
		} else {
			aiDescription = null.StringFrom(text)
		}
	}

	if !equipment.UsageTips.Valid {
		text, err := j.generate(ctx, usageTipsPrompt, equipment)
		if err != nil && firstErr == nil {
			firstErr = err
		} else if err == nil {
			usageTips = null.StringFrom(text)
		}
	}

	if aiDescription.Valid || usageTips.Valid {
		if err := j.equipmentRepo.UpdateGeneratedContent(ctx, equipment.ID, aiDescription, usageTips); err != nil {
			return err
		}
	}
	return firstErr
}

func (j *ContentBackfillJob) generate(ctx context.Context, prompt string, equipment *entities.Equipment) (string, error) {
	text, err := j.generator.Generate(ctx, fmt.Sprintf(prompt, equipment.Name, equipment.Specifications))
	if err != nil {
		return "", err
	}
	// Пауза между запросами к провайдеру.
	if j.cfg.RateLimit > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(j.cfg.RateLimit):
		}
	}
	return text, nil
}
