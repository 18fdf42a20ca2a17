package services

import (
	"context"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"

	"go.uber.org/zap"
)

type DepartmentServiceInterface interface {
	GetDepartments(ctx context.Context) ([]dto.DepartmentDTO, error)
	FindDepartment(ctx context.Context, id uint64) (*dto.DepartmentDTO, error)
	CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*dto.DepartmentDTO, error)
	DeleteDepartment(ctx context.Context, id uint64) error
}

type DepartmentService struct {
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewDepartmentService(departmentRepo repositories.DepartmentRepositoryInterface, logger *zap.Logger) DepartmentServiceInterface {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

func (s *DepartmentService) GetDepartments(ctx context.Context) ([]dto.DepartmentDTO, error) {
	departments, err := s.departmentRepo.GetDepartments(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DepartmentDTO, 0, len(departments))
	for _, d := range departments {
		result = append(result, mapDepartmentToDTO(&d))
	}
	return result, nil
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*dto.DepartmentDTO, error) {
	department, err := s.departmentRepo.FindDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapDepartmentToDTO(department)
	return &result, nil
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*dto.DepartmentDTO, error) {
	department := &entities.Department{
		Name:        payload.Name,
		Code:        payload.Code,
		Description: payload.Description,
	}

	if _, err := s.departmentRepo.CreateDepartment(ctx, department); err != nil {
		return nil, err
	}
	s.logger.Info("создано подразделение", zap.Uint64("department_id", department.ID), zap.String("code", department.Code))

	result := mapDepartmentToDTO(department)
	return &result, nil
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint64) error {
	return s.departmentRepo.DeleteDepartment(ctx, id)
}

func mapDepartmentToDTO(d *entities.Department) dto.DepartmentDTO {
	return dto.DepartmentDTO{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
	}
}
