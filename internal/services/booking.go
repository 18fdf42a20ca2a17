package services

import (
	"context"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/events"
	"lab-system/internal/repositories"
	"lab-system/pkg/constants"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/eventbus"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingServiceInterface interface {
	GetBookings(ctx context.Context, filter dto.BookingFilter) ([]dto.BookingDTO, uint64, error)
	FindBooking(ctx context.Context, actorID uint64, role string, id uint64) (*dto.BookingDTO, error)
	CreateBooking(ctx context.Context, requesterID uint64, payload dto.CreateBookingDTO) (*dto.BookingDTO, error)
	ApproveBooking(ctx context.Context, staffID uint64, id uint64, payload dto.DecisionDTO) (*dto.BookingDTO, error)
	RejectBooking(ctx context.Context, staffID uint64, id uint64, payload dto.DecisionDTO) (*dto.BookingDTO, error)
	CancelBooking(ctx context.Context, actorID uint64, role string, id uint64) (*dto.BookingDTO, error)
	CompleteBooking(ctx context.Context, id uint64, now time.Time) (*dto.BookingDTO, error)
}

// BookingService - движок бронирования. Все переходы статусов проходят
// только через него; проверка конфликтов и запись выполняются в одной
// транзакции под блокировкой строки оборудования, поэтому два конкурентных
// запроса на одну единицу не могут оба пройти проверку.
type BookingService struct {
	bookingRepo   repositories.BookingRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	checker       *ConflictChecker
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewBookingService(
	bookingRepo repositories.BookingRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	checker *ConflictChecker,
	bus *eventbus.Bus,
	logger *zap.Logger,
) BookingServiceInterface {
	return &BookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		checker:       checker,
		bus:           bus,
		logger:        logger,
	}
}

func (s *BookingService) GetBookings(ctx context.Context, filter dto.BookingFilter) ([]dto.BookingDTO, uint64, error) {
	bookings, total, err := s.bookingRepo.GetBookings(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.BookingDTO, 0, len(bookings))
	for i := range bookings {
		result = append(result, mapBookingToDTO(&bookings[i]))
	}
	return result, total, nil
}

func (s *BookingService) FindBooking(ctx context.Context, actorID uint64, role string, id uint64) (*dto.BookingDTO, error) {
	booking, err := s.bookingRepo.FindBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	// Студент видит только собственные брони.
	if !constants.IsStaff(role) && booking.UserID != actorID {
		return nil, apperrors.ErrForbidden
	}
	result := mapBookingToDTO(booking)
	return &result, nil
}

// CreateBooking принимает заявку в статус pending.
// Порядок проверок: валидация интервала, административный статус
// оборудования, пересечения с активными бронями.
func (s *BookingService) CreateBooking(ctx context.Context, requesterID uint64, payload dto.CreateBookingDTO) (*dto.BookingDTO, error) {
	if !payload.PickupTime.Before(payload.ReturnTime) {
		return nil, apperrors.NewValidationError("время выдачи должно быть раньше времени возврата")
	}
	if !payload.PickupTime.After(time.Now()) {
		return nil, apperrors.NewValidationError("время выдачи должно быть в будущем")
	}

	booking := &entities.Booking{
		UserID:      requesterID,
		EquipmentID: payload.EquipmentID,
		PickupTime:  payload.PickupTime,
		ReturnTime:  payload.ReturnTime,
		Purpose:     payload.Purpose,
		Status:      constants.BookingStatusPending,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// Блокировка строки оборудования сериализует конкурентные
		// check-then-write по одной и той же единице.
		equipment, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}
		if equipment.Status != constants.EquipmentStatusAvailable {
			return &apperrors.UnavailableError{EquipmentID: equipment.ID, Status: equipment.Status}
		}

		existing, err := s.bookingRepo.FindActiveOverlappingInTx(ctx, tx, payload.EquipmentID, payload.PickupTime, payload.ReturnTime, 0)
		if err != nil {
			return err
		}
		if conflict := s.checker.FirstConflict(payload.PickupTime, payload.ReturnTime, existing, 0); conflict != nil {
			return &apperrors.ConflictError{EquipmentID: payload.EquipmentID, BookingID: conflict.ID}
		}

		_, err = s.bookingRepo.CreateBookingInTx(ctx, tx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewBookingEvent(events.BookingCreatedName, *booking))
	s.logger.Info("создана заявка на бронирование",
		zap.Uint64("booking_id", booking.ID),
		zap.Uint64("equipment_id", booking.EquipmentID),
		zap.Uint64("user_id", requesterID),
	)

	result := mapBookingToDTO(booking)
	return &result, nil
}

// ApproveBooking утверждает заявку. Перед записью проверка конфликтов
// повторяется по текущему состоянию: пока заявка ждала решения, могла быть
// утверждена другая, более поздняя бронь на ту же единицу.
func (s *BookingService) ApproveBooking(ctx context.Context, staffID uint64, id uint64, payload dto.DecisionDTO) (*dto.BookingDTO, error) {
	booking, err := s.transition(ctx, id, func(tx pgx.Tx, b *entities.Booking) error {
		if b.Status != constants.BookingStatusPending {
			return &apperrors.InvalidStateError{Attempted: constants.BookingStatusApproved, Current: b.Status}
		}

		if _, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, b.EquipmentID); err != nil {
			return err
		}
		existing, err := s.bookingRepo.FindActiveOverlappingInTx(ctx, tx, b.EquipmentID, b.PickupTime, b.ReturnTime, b.ID)
		if err != nil {
			return err
		}
		if conflict := s.checker.FirstConflict(b.PickupTime, b.ReturnTime, existing, b.ID); conflict != nil {
			return &apperrors.ConflictError{EquipmentID: b.EquipmentID, BookingID: conflict.ID}
		}

		b.Status = constants.BookingStatusApproved
		b.ApprovedBy = null.Uint64From(staffID)
		if payload.Notes != "" {
			b.Notes = null.StringFrom(payload.Notes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewBookingEvent(events.BookingApprovedName, *booking))
	s.logger.Info("заявка утверждена", zap.Uint64("booking_id", id), zap.Uint64("staff_id", staffID))

	result := mapBookingToDTO(booking)
	return &result, nil
}

func (s *BookingService) RejectBooking(ctx context.Context, staffID uint64, id uint64, payload dto.DecisionDTO) (*dto.BookingDTO, error) {
	booking, err := s.transition(ctx, id, func(tx pgx.Tx, b *entities.Booking) error {
		if b.Status != constants.BookingStatusPending {
			return &apperrors.InvalidStateError{Attempted: constants.BookingStatusRejected, Current: b.Status}
		}
		b.Status = constants.BookingStatusRejected
		b.ApprovedBy = null.Uint64From(staffID)
		if payload.Notes != "" {
			b.Notes = null.StringFrom(payload.Notes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewBookingEvent(events.BookingRejectedName, *booking))
	s.logger.Info("заявка отклонена", zap.Uint64("booking_id", id), zap.Uint64("staff_id", staffID))

	result := mapBookingToDTO(booking)
	return &result, nil
}

// CancelBooking отменяет заявку. Разрешено заявителю и персоналу,
// из статусов pending и approved.
func (s *BookingService) CancelBooking(ctx context.Context, actorID uint64, role string, id uint64) (*dto.BookingDTO, error) {
	booking, err := s.transition(ctx, id, func(tx pgx.Tx, b *entities.Booking) error {
		if b.UserID != actorID && !constants.IsStaff(role) {
			return apperrors.ErrForbidden
		}
		if b.Status != constants.BookingStatusPending && b.Status != constants.BookingStatusApproved {
			return &apperrors.InvalidStateError{Attempted: constants.BookingStatusCancelled, Current: b.Status}
		}
		b.Status = constants.BookingStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewBookingEvent(events.BookingCancelledName, *booking))
	s.logger.Info("заявка отменена", zap.Uint64("booking_id", id), zap.Uint64("actor_id", actorID))

	result := mapBookingToDTO(booking)
	return &result, nil
}

// CompleteBooking закрывает утвержденную бронь после наступления времени
// возврата. Вызывается персоналом или фоновым обходом просроченных броней.
func (s *BookingService) CompleteBooking(ctx context.Context, id uint64, now time.Time) (*dto.BookingDTO, error) {
	booking, err := s.transition(ctx, id, func(tx pgx.Tx, b *entities.Booking) error {
		if b.Status != constants.BookingStatusApproved {
			return &apperrors.InvalidStateError{Attempted: constants.BookingStatusCompleted, Current: b.Status}
		}
		if b.ReturnTime.After(now) {
			return apperrors.NewValidationError("время возврата еще не наступило")
		}
		b.Status = constants.BookingStatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewBookingEvent(events.BookingCompletedName, *booking))
	s.logger.Info("бронирование завершено", zap.Uint64("booking_id", id))

	result := mapBookingToDTO(booking)
	return &result, nil
}

// transition выполняет переход статуса в транзакции под блокировкой
// строки брони и возвращает обновленный снимок.
func (s *BookingService) transition(ctx context.Context, id uint64, mutate func(tx pgx.Tx, b *entities.Booking) error) (*entities.Booking, error) {
	var booking *entities.Booking

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		booking, err = s.bookingRepo.FindBookingForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := mutate(tx, booking); err != nil {
			return err
		}
		return s.bookingRepo.UpdateStatusInTx(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func mapBookingToDTO(b *entities.Booking) dto.BookingDTO {
	result := dto.BookingDTO{
		ID:          b.ID,
		EquipmentID: b.EquipmentID,
		PickupTime:  b.PickupTime.Local().Format("2006-01-02 15:04:05"),
		ReturnTime:  b.ReturnTime.Local().Format("2006-01-02 15:04:05"),
		Purpose:     b.Purpose,
		Status:      b.Status,
		Notes:       b.Notes.String,
		CreatedAt:   b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if b.ApprovedBy.Valid {
		approvedBy := b.ApprovedBy.Uint64
		result.ApprovedBy = &approvedBy
	}
	if b.Requester != nil {
		result.Requester = b.Requester.Fio
	}
	if b.Equipment != nil {
		result.Equipment = b.Equipment.Name
	}
	return result
}
