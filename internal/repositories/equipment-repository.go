package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-system/internal/entities"
	apperrors "lab-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, limit, offset uint64) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error
	DeleteEquipment(ctx context.Context, id uint64) error
	FindWarrantyExpiring(ctx context.Context, from, to time.Time) ([]entities.Equipment, error)
	FindMissingAIContent(ctx context.Context) ([]entities.Equipment, error)
	UpdateGeneratedContent(ctx context.Context, id uint64, aiDescription, usageTips null.String) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
	}
}

const equipmentColumns = `
	e.id, e.code, e.name, e.department_id, e.description, e.specifications,
	e.status, e.purchase_date, e.warranty_date, e.ai_description, e.usage_tips,
	e.created_at, e.updated_at`

func scanEquipmentRows(rows pgx.Rows, errContext string) ([]entities.Equipment, error) {
	equipments := make([]entities.Equipment, 0)
	for rows.Next() {
		var e entities.Equipment
		err := rows.Scan(
			&e.ID, &e.Code, &e.Name, &e.DepartmentID, &e.Description, &e.Specifications,
			&e.Status, &e.PurchaseDate, &e.WarrantyDate, &e.AIDescription, &e.UsageTips,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errContext, err)
		}
		equipments = append(equipments, e)
	}
	return equipments, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, limit, offset uint64) ([]entities.Equipment, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM equipments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}

	query := `
		SELECT ` + equipmentColumns + `, COALESCE(d.name, '')
		FROM equipments e
		LEFT JOIN departments d ON e.department_id = d.id
		ORDER BY e.name
		LIMIT $1 OFFSET $2`

	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка оборудования: %w", err)
	}
	defer rows.Close()

	equipments := make([]entities.Equipment, 0)
	for rows.Next() {
		var e entities.Equipment
		var departmentName string
		err := rows.Scan(
			&e.ID, &e.Code, &e.Name, &e.DepartmentID, &e.Description, &e.Specifications,
			&e.Status, &e.PurchaseDate, &e.WarrantyDate, &e.AIDescription, &e.UsageTips,
			&e.CreatedAt, &e.UpdatedAt,
			&departmentName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования оборудования в списке: %w", err)
		}
		if departmentName != "" {
			e.Department = &entities.Department{ID: e.DepartmentID, Name: departmentName}
		}
		equipments = append(equipments, e)
	}
	return equipments, total, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipments e WHERE e.id = $1`

	var e entities.Equipment
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Code, &e.Name, &e.DepartmentID, &e.Description, &e.Specifications,
		&e.Status, &e.PurchaseDate, &e.WarrantyDate, &e.AIDescription, &e.UsageTips,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования оборудования: %w", err)
	}
	return &e, nil
}

// FindEquipmentForUpdateInTx блокирует строку оборудования на время транзакции.
// Конкурирующие проверки конфликтов по одной единице выстраиваются в очередь.
func (r *EquipmentRepository) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipments e WHERE e.id = $1 FOR UPDATE`

	var e entities.Equipment
	err := tx.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Code, &e.Name, &e.DepartmentID, &e.Description, &e.Specifications,
		&e.Status, &e.PurchaseDate, &e.WarrantyDate, &e.AIDescription, &e.UsageTips,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения оборудования с блокировкой: %w", err)
	}
	return &e, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (code, name, department_id, description, specifications, status, purchase_date, warranty_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.storage.QueryRow(ctx, query,
		equipment.Code, equipment.Name, equipment.DepartmentID, equipment.Description,
		equipment.Specifications, equipment.Status, equipment.PurchaseDate, equipment.WarrantyDate,
	).Scan(&equipment.ID, &equipment.CreatedAt, &equipment.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания оборудования: %w", err)
	}
	return equipment.ID, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $1, description = $2, specifications = $3, status = $4,
			purchase_date = $5, warranty_date = $6, updated_at = NOW()
		WHERE id = $7`

	tag, err := r.storage.Exec(ctx, query,
		equipment.Name, equipment.Description, equipment.Specifications, equipment.Status,
		equipment.PurchaseDate, equipment.WarrantyDate, equipment.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления оборудования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM equipments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления оборудования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindWarrantyExpiring возвращает оборудование, у которого гарантия
// истекает в интервале [from, to].
func (r *EquipmentRepository) FindWarrantyExpiring(ctx context.Context, from, to time.Time) ([]entities.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipments e
		WHERE e.status = 'available'
		  AND e.warranty_date IS NOT NULL
		  AND e.warranty_date >= $1
		  AND e.warranty_date <= $2
		ORDER BY e.warranty_date`

	rows, err := r.storage.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска оборудования с истекающей гарантией: %w", err)
	}
	defer rows.Close()

	return scanEquipmentRows(rows, "ошибка сканирования оборудования с истекающей гарантией")
}

// FindMissingAIContent возвращает оборудование, у которого не заполнено
// хотя бы одно из сгенерированных полей.
func (r *EquipmentRepository) FindMissingAIContent(ctx context.Context) ([]entities.Equipment, error) {
	query := `
		SELECT ` + equipmentColumns + `
		FROM equipments e
		WHERE e.ai_description IS NULL OR e.usage_tips IS NULL
		ORDER BY e.id`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска оборудования без описаний: %w", err)
	}
	defer rows.Close()

	return scanEquipmentRows(rows, "ошибка сканирования оборудования без описаний")
}

// UpdateGeneratedContent сохраняет только непустые поля:
// успешная генерация одного поля не затирается неудачей другого.
func (r *EquipmentRepository) UpdateGeneratedContent(ctx context.Context, id uint64, aiDescription, usageTips null.String) error {
	query := `
		UPDATE equipments
		SET ai_description = COALESCE($1, ai_description),
			usage_tips = COALESCE($2, usage_tips),
			updated_at = NOW()
		WHERE id = $3`

	tag, err := r.storage.Exec(ctx, query, aiDescription, usageTips, id)
	if err != nil {
		return fmt.Errorf("ошибка сохранения сгенерированных описаний: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
