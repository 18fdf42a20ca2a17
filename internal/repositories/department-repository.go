package repositories

import (
	"context"
	"errors"
	"fmt"

	"lab-system/internal/entities"
	apperrors "lab-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepartmentRepositoryInterface interface {
	GetDepartments(ctx context.Context) ([]entities.Department, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	CreateDepartment(ctx context.Context, department *entities.Department) (uint64, error)
	DeleteDepartment(ctx context.Context, id uint64) error
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
}

func NewDepartmentRepository(storage *pgxpool.Pool) DepartmentRepositoryInterface {
	return &DepartmentRepository{
		storage: storage,
	}
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context) ([]entities.Department, error) {
	query := `SELECT id, name, code, description, created_at FROM departments ORDER BY name`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка подразделений: %w", err)
	}
	defer rows.Close()

	departments := make([]entities.Department, 0)
	for rows.Next() {
		var d entities.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования подразделения: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, nil
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	query := `SELECT id, name, code, description, created_at FROM departments WHERE id = $1`

	var d entities.Department
	err := r.storage.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования подразделения: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department *entities.Department) (uint64, error) {
	query := `
		INSERT INTO departments (name, code, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.storage.QueryRow(ctx, query, department.Name, department.Code, department.Description).
		Scan(&department.ID, &department.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания подразделения: %w", err)
	}
	return department.ID, nil
}

func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления подразделения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
