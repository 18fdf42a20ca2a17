package services

import (
	"context"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/events"
	"lab-system/internal/repositories"
	"lab-system/pkg/constants"
	"lab-system/pkg/eventbus"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, limit, offset uint64) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		bus:           bus,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, limit, offset uint64) ([]dto.EquipmentDTO, uint64, error) {
	if limit == 0 {
		limit = 20
	}
	equipments, total, err := s.equipmentRepo.GetEquipments(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.EquipmentDTO, 0, len(equipments))
	for i := range equipments {
		result = append(result, mapEquipmentToDTO(&equipments[i]))
	}
	return result, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapEquipmentToDTO(equipment)
	return &result, nil
}

// CreateEquipment регистрирует единицу и публикует событие для фоновой
// генерации описаний.
func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment := &entities.Equipment{
		Code:           payload.Code,
		Name:           payload.Name,
		DepartmentID:   payload.DepartmentID,
		Description:    payload.Description,
		Specifications: payload.Specifications,
		Status:         constants.EquipmentStatusAvailable,
		PurchaseDate:   null.TimeFromPtr(payload.PurchaseDate),
		WarrantyDate:   null.TimeFromPtr(payload.WarrantyDate),
	}

	if _, err := s.equipmentRepo.CreateEquipment(ctx, equipment); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewEquipmentCreatedEvent(equipment.ID))
	s.logger.Info("зарегистрировано оборудование",
		zap.Uint64("equipment_id", equipment.ID),
		zap.String("code", equipment.Code),
	)

	result := mapEquipmentToDTO(equipment)
	return &result, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		equipment.Name = *payload.Name
	}
	if payload.Description != nil {
		equipment.Description = *payload.Description
	}
	if payload.Specifications != nil {
		equipment.Specifications = *payload.Specifications
	}
	if payload.Status != nil {
		equipment.Status = *payload.Status
	}
	if payload.PurchaseDate != nil {
		equipment.PurchaseDate = null.TimeFrom(*payload.PurchaseDate)
	}
	if payload.WarrantyDate != nil {
		equipment.WarrantyDate = null.TimeFrom(*payload.WarrantyDate)
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}

	result := mapEquipmentToDTO(equipment)
	return &result, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	return s.equipmentRepo.DeleteEquipment(ctx, id)
}

func mapEquipmentToDTO(e *entities.Equipment) dto.EquipmentDTO {
	result := dto.EquipmentDTO{
		ID:             e.ID,
		Code:           e.Code,
		Name:           e.Name,
		DepartmentID:   e.DepartmentID,
		Description:    e.Description,
		Specifications: e.Specifications,
		Status:         e.Status,
		AIDescription:  e.AIDescription.String,
		UsageTips:      e.UsageTips.String,
	}
	if e.Department != nil {
		result.Department = e.Department.Name
	}
	if e.PurchaseDate.Valid {
		result.PurchaseDate = e.PurchaseDate.Time.Format("2006-01-02")
	}
	if e.WarrantyDate.Valid {
		result.WarrantyDate = e.WarrantyDate.Time.Format("2006-01-02")
	}
	return result
}
