package listeners

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lab-system/internal/entities"
	"lab-system/internal/events"
	"lab-system/internal/repositories"
	"lab-system/pkg/eventbus"
	"lab-system/pkg/mailer"
)

// Доставка шины - минимум один раз, поэтому перед отправкой ставится
// метка (bookingID, kind): повторное событие письма не породит.
const dedupTTL = 7 * 24 * time.Hour

type NotificationListener struct {
	transport mailer.TransportInterface
	userRepo  repositories.UserRepositoryInterface
	cache     repositories.CacheRepositoryInterface
	logger    *zap.Logger
}

func NewNotificationListener(
	transport mailer.TransportInterface,
	userRepo repositories.UserRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		transport: transport,
		userRepo:  userRepo,
		cache:     cache,
		logger:    logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	for _, name := range []string{
		events.BookingCreatedName,
		events.BookingApprovedName,
		events.BookingRejectedName,
		events.BookingCancelledName,
		events.BookingCompletedName,
	} {
		bus.Subscribe(name, l.handleBookingEvent)
	}
	l.logger.Info("NotificationListener подписан на события бронирования")
}

// handleBookingEvent отправляет уведомление заявителю и, для новых и
// отмененных заявок, копии персоналу. Ошибка доставки заявителю возвращается наверх (шина ее
// залогирует), но переход статуса она не откатывает. Копии персоналу
// отправляются по принципу fail-silently.
func (l *NotificationListener) handleBookingEvent(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.BookingEvent)
	if !ok {
		return nil
	}

	dedupKey := fmt.Sprintf("notify:%d:%s", e.Booking.ID, e.Kind())
	acquired, err := l.cache.SetNX(ctx, dedupKey, "1", dedupTTL)
	if err != nil {
		return fmt.Errorf("ошибка проверки дубликата уведомления: %w", err)
	}
	if !acquired {
		l.logger.Info("уведомление уже отправлялось, пропускаем",
			zap.Uint64("booking_id", e.Booking.ID),
			zap.String("kind", e.Kind()),
		)
		return nil
	}

	requester, err := l.userRepo.FindUser(ctx, e.Booking.UserID)
	if err != nil {
		return fmt.Errorf("не удалось найти заявителя для уведомления: %w", err)
	}

	subject, body := l.renderMessage(&e.Booking, e.Kind(), requester)
	if subject == "" {
		return nil
	}

	if e.EventName == events.BookingCreatedName || e.EventName == events.BookingCancelledName {
		l.notifyStaff(ctx, subject, body)
	}

	if err := l.transport.Send(ctx, requester.Email, subject, body); err != nil {
		return err
	}

	l.logger.Info("уведомление отправлено",
		zap.Uint64("booking_id", e.Booking.ID),
		zap.String("kind", e.Kind()),
		zap.String("recipient", requester.Email),
	)
	return nil
}

// notifyStaff рассылает копии персоналу. Сбои только логируются.
func (l *NotificationListener) notifyStaff(ctx context.Context, subject, body string) {
	staff, err := l.userRepo.FindStaff(ctx)
	if err != nil {
		l.logger.Error("не удалось получить список персонала", zap.Error(err))
		return
	}
	for _, user := range staff {
		if err := l.transport.Send(ctx, user.Email, subject, body); err != nil {
			l.logger.Error("не удалось отправить копию персоналу",
				zap.String("recipient", user.Email),
				zap.Error(err),
			)
		}
	}
}

func (l *NotificationListener) renderMessage(b *entities.Booking, kind string, requester *entities.User) (string, string) {
	interval := fmt.Sprintf("с %s по %s",
		b.PickupTime.Local().Format("02.01.2006 15:04"),
		b.ReturnTime.Local().Format("02.01.2006 15:04"),
	)

	switch kind {
	case "created":
		return fmt.Sprintf("Заявка №%d принята", b.ID),
			fmt.Sprintf("%s, ваша заявка на бронирование оборудования %s принята и ожидает рассмотрения.", requester.Fio, interval)
	case "approved":
		return fmt.Sprintf("Заявка №%d утверждена", b.ID),
			fmt.Sprintf("%s, ваша заявка на бронирование %s утверждена. Не забудьте вернуть оборудование вовремя.", requester.Fio, interval)
	case "rejected":
		body := fmt.Sprintf("%s, ваша заявка на бронирование %s отклонена.", requester.Fio, interval)
		if b.Notes.Valid && b.Notes.String != "" {
			body += " Причина: " + b.Notes.String
		}
		return fmt.Sprintf("Заявка №%d отклонена", b.ID), body
	case "cancelled":
		return fmt.Sprintf("Заявка №%d отменена", b.ID),
			fmt.Sprintf("%s, бронирование %s отменено.", requester.Fio, interval)
	case "completed":
		return fmt.Sprintf("Заявка №%d завершена", b.ID),
			fmt.Sprintf("%s, бронирование %s завершено. Спасибо!", requester.Fio, interval)
	}
	return "", ""
}
