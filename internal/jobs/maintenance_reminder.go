package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/ai"
	"lab-system/pkg/mailer"
)

const maintenanceAdvicePrompt = "Дай краткий совет (2-3 предложения) по техническому обслуживанию " +
	"лабораторного оборудования \"%s\" перед окончанием гарантии. Характеристики: %s"

// MaintenanceReminderJob еженедельно напоминает персоналу об оборудовании,
// у которого в ближайшее время истекает гарантия.
type MaintenanceReminderJob struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	transport     mailer.TransportInterface
	generator     ai.GeneratorInterface
	windowDays    int
	logger        *zap.Logger
}

func NewMaintenanceReminderJob(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	transport mailer.TransportInterface,
	generator ai.GeneratorInterface,
	windowDays int,
	logger *zap.Logger,
) *MaintenanceReminderJob {
	return &MaintenanceReminderJob{
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		transport:     transport,
		generator:     generator,
		windowDays:    windowDays,
		logger:        logger,
	}
}

func (j *MaintenanceReminderJob) Name() string { return "maintenance_reminder" }

func (j *MaintenanceReminderJob) Run(ctx context.Context) error {
	now := time.Now()
	expiring, err := j.equipmentRepo.FindWarrantyExpiring(ctx, now, now.AddDate(0, 0, j.windowDays))
	if err != nil {
		return err
	}
	if len(expiring) == 0 {
		return nil
	}

	staff, err := j.userRepo.FindStaff(ctx)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Гарантия истекает: %d ед. оборудования", len(expiring))
	body := "В ближайшие дни истекает гарантия на следующее оборудование:\n\n"
	for _, e := range expiring {
		body += fmt.Sprintf("- %s (%s), гарантия до %s\n",
			e.Name, e.Code, e.WarrantyDate.Time.Format("02.01.2006"))
		if advice := j.maintenanceAdvice(ctx, &e); advice != "" {
			body += "  Рекомендация: " + advice + "\n"
		}
	}

	// Сбой доставки одному адресату не останавливает рассылку.
	for _, user := range staff {
		if err := j.transport.Send(ctx, user.Email, subject, body); err != nil {
			j.logger.Error("не удалось отправить напоминание о гарантии",
				zap.String("recipient", user.Email),
				zap.Error(err),
			)
		}
	}

	j.logger.Info("напоминания о гарантии разосланы",
		zap.Int("equipment", len(expiring)),
		zap.Int("recipients", len(staff)),
	)
	return nil
}

// maintenanceAdvice запрашивает у генератора рекомендацию по обслуживанию.
// Сбой генерации письмо не блокирует: позиция уходит без рекомендации.
func (j *MaintenanceReminderJob) maintenanceAdvice(ctx context.Context, e *entities.Equipment) string {
	advice, err := j.generator.Generate(ctx, fmt.Sprintf(maintenanceAdvicePrompt, e.Name, e.Specifications))
	if err != nil {
		j.logger.Warn("не удалось сгенерировать рекомендацию по обслуживанию",
			zap.Uint64("equipment_id", e.ID),
			zap.Error(err),
		)
		return ""
	}
	return advice
}
