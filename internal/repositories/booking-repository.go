package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	apperrors "lab-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepositoryInterface interface {
	GetBookings(ctx context.Context, filter dto.BookingFilter) ([]entities.Booking, uint64, error)
	FindBooking(ctx context.Context, id uint64) (*entities.Booking, error)
	CreateBookingInTx(ctx context.Context, tx pgx.Tx, booking *entities.Booking) (uint64, error)
	FindBookingForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Booking, error)
	FindActiveOverlappingInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, pickupTime, returnTime time.Time, excludeID uint64) ([]entities.Booking, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, booking *entities.Booking) error
	FindApprovedOverdue(ctx context.Context, now time.Time) ([]entities.Booking, error)
	GetBookingsSince(ctx context.Context, since time.Time) ([]entities.Booking, error)
}

type BookingRepository struct {
	storage *pgxpool.Pool
}

func NewBookingRepository(storage *pgxpool.Pool) BookingRepositoryInterface {
	return &BookingRepository{
		storage: storage,
	}
}

const bookingColumns = `
	b.id, b.user_id, b.equipment_id, b.pickup_time, b.return_time,
	b.purpose, b.status, b.notes, b.approved_by, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*entities.Booking, error) {
	var b entities.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.EquipmentID, &b.PickupTime, &b.ReturnTime,
		&b.Purpose, &b.Status, &b.Notes, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBookings возвращает страницу бронирований по фильтру.
func (r *BookingRepository) GetBookings(ctx context.Context, filter dto.BookingFilter) ([]entities.Booking, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyFilter := func(builder sq.SelectBuilder) sq.SelectBuilder {
		if filter.Status != "" {
			builder = builder.Where(sq.Eq{"b.status": filter.Status})
		}
		if filter.EquipmentID > 0 {
			builder = builder.Where(sq.Eq{"b.equipment_id": filter.EquipmentID})
		}
		if filter.UserID > 0 {
			builder = builder.Where(sq.Eq{"b.user_id": filter.UserID})
		}
		return builder
	}

	countQuery, countArgs, err := applyFilter(psql.Select("COUNT(*)").From("bookings b")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса подсчета: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета бронирований: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}

	listBuilder := applyFilter(psql.
		Select(
			"b.id", "b.user_id", "b.equipment_id", "b.pickup_time", "b.return_time",
			"b.purpose", "b.status", "b.notes", "b.approved_by", "b.created_at", "b.updated_at",
			"u.fio", "e.name",
		).
		From("bookings b").
		Join("users u ON b.user_id = u.id").
		Join("equipments e ON b.equipment_id = e.id")).
		OrderBy("b.created_at DESC").
		Limit(limit).
		Offset(filter.Offset)

	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса списка: %w", err)
	}

	rows, err := r.storage.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка бронирований: %w", err)
	}
	defer rows.Close()

	bookings := make([]entities.Booking, 0)
	for rows.Next() {
		var b entities.Booking
		var requesterFio, equipmentName string
		err := rows.Scan(
			&b.ID, &b.UserID, &b.EquipmentID, &b.PickupTime, &b.ReturnTime,
			&b.Purpose, &b.Status, &b.Notes, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
			&requesterFio, &equipmentName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования бронирования в списке: %w", err)
		}
		b.Requester = &entities.User{ID: b.UserID, Fio: requesterFio}
		b.Equipment = &entities.Equipment{ID: b.EquipmentID, Name: equipmentName}
		bookings = append(bookings, b)
	}
	return bookings, total, nil
}

// FindBooking находит одно бронирование по ID вместе с заявителем и оборудованием.
func (r *BookingRepository) FindBooking(ctx context.Context, id uint64) (*entities.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `,
			u.id, u.fio, u.email, u.role,
			e.id, e.code, e.name, e.department_id, e.status
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN equipments e ON b.equipment_id = e.id
		WHERE b.id = $1`

	var b entities.Booking
	var requester entities.User
	var equipment entities.Equipment

	err := r.storage.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.EquipmentID, &b.PickupTime, &b.ReturnTime,
		&b.Purpose, &b.Status, &b.Notes, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
		&requester.ID, &requester.Fio, &requester.Email, &requester.Role,
		&equipment.ID, &equipment.Code, &equipment.Name, &equipment.DepartmentID, &equipment.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования бронирования: %w", err)
	}

	b.Requester = &requester
	b.Equipment = &equipment
	return &b, nil
}

// CreateBookingInTx вставляет бронирование внутри открытой транзакции.
func (r *BookingRepository) CreateBookingInTx(ctx context.Context, tx pgx.Tx, booking *entities.Booking) (uint64, error) {
	query := `
		INSERT INTO bookings (user_id, equipment_id, pickup_time, return_time, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		booking.UserID, booking.EquipmentID, booking.PickupTime, booking.ReturnTime,
		booking.Purpose, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания бронирования: %w", err)
	}
	return booking.ID, nil
}

// FindBookingForUpdateInTx читает бронирование с блокировкой строки.
// Конкурирующие решения по одной и той же брони сериализуются на этой блокировке.
func (r *BookingRepository) FindBookingForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`

	b, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения бронирования с блокировкой: %w", err)
	}
	return b, nil
}

// FindActiveOverlappingInTx возвращает активные (pending/approved) брони
// оборудования, пересекающиеся с интервалом [pickupTime, returnTime).
// Интервалы полуоткрытые: касание границ пересечением не считается.
func (r *BookingRepository) FindActiveOverlappingInTx(ctx context.Context, tx pgx.Tx, equipmentID uint64, pickupTime, returnTime time.Time, excludeID uint64) ([]entities.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.equipment_id = $1
		  AND b.status IN ('pending', 'approved')
		  AND b.pickup_time < $3
		  AND $2 < b.return_time
		  AND b.id <> $4
		ORDER BY b.pickup_time`

	rows, err := tx.Query(ctx, query, equipmentID, pickupTime, returnTime, excludeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пересекающихся бронирований: %w", err)
	}
	defer rows.Close()

	bookings := make([]entities.Booking, 0)
	for rows.Next() {
		var b entities.Booking
		err := rows.Scan(
			&b.ID, &b.UserID, &b.EquipmentID, &b.PickupTime, &b.ReturnTime,
			&b.Purpose, &b.Status, &b.Notes, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пересекающегося бронирования: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// UpdateStatusInTx записывает новый статус, заметки и утвердившего.
func (r *BookingRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, booking *entities.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, notes = $2, approved_by = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query, booking.Status, booking.Notes, booking.ApprovedBy, booking.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса бронирования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindApprovedOverdue возвращает утвержденные брони с истекшим временем возврата.
func (r *BookingRepository) FindApprovedOverdue(ctx context.Context, now time.Time) ([]entities.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.status = 'approved' AND b.return_time <= $1`

	rows, err := r.storage.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска просроченных бронирований: %w", err)
	}
	defer rows.Close()

	bookings := make([]entities.Booking, 0)
	for rows.Next() {
		var b entities.Booking
		err := rows.Scan(
			&b.ID, &b.UserID, &b.EquipmentID, &b.PickupTime, &b.ReturnTime,
			&b.Purpose, &b.Status, &b.Notes, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования просроченного бронирования: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// GetBookingsSince возвращает брони, созданные не раньше since,
// с подгруженными заявителем (роль, подразделение) и оборудованием для аналитики.
func (r *BookingRepository) GetBookingsSince(ctx context.Context, since time.Time) ([]entities.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `,
			u.id, u.fio, u.role, u.department_id,
			e.id, e.name, e.department_id,
			COALESCE(d.name, '')
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN equipments e ON b.equipment_id = e.id
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE b.created_at >= $1
		ORDER BY b.created_at`

	rows, err := r.storage.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки бронирований для аналитики: %w", err)
	}
	defer rows.Close()

	bookings := make([]entities.Booking, 0)
	for rows.Next() {
		var b entities.Booking
		var requester entities.User
		var equipment entities.Equipment
		var departmentName string

		err := rows.Scan(
			&b.ID, &b.UserID, &b.EquipmentID, &b.PickupTime, &b.ReturnTime,
			&b.Purpose, &b.Status, &b.Notes, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
			&requester.ID, &requester.Fio, &requester.Role, &requester.DepartmentID,
			&equipment.ID, &equipment.Name, &equipment.DepartmentID,
			&departmentName,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования бронирования для аналитики: %w", err)
		}

		if departmentName != "" {
			equipment.Department = &entities.Department{ID: equipment.DepartmentID, Name: departmentName}
		}
		b.Requester = &requester
		b.Equipment = &equipment
		bookings = append(bookings, b)
	}
	return bookings, nil
}
