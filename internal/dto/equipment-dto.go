package dto

import "time"

type CreateEquipmentDTO struct {
	Code           string     `json:"code"           validate:"required,max=50"`
	Name           string     `json:"name"           validate:"required,max=255"`
	DepartmentID   uint64     `json:"department_id"  validate:"required,gt=0"`
	Description    string     `json:"description"    validate:"omitempty"`
	Specifications string     `json:"specifications" validate:"omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date"  validate:"omitempty"`
	WarrantyDate   *time.Time `json:"warranty_date"  validate:"omitempty"`
}

type UpdateEquipmentDTO struct {
	Name           *string    `json:"name"           validate:"omitempty,max=255"`
	Description    *string    `json:"description"    validate:"omitempty"`
	Specifications *string    `json:"specifications" validate:"omitempty"`
	Status         *string    `json:"status"         validate:"omitempty,oneof=available maintenance broken reserved"`
	PurchaseDate   *time.Time `json:"purchase_date"  validate:"omitempty"`
	WarrantyDate   *time.Time `json:"warranty_date"  validate:"omitempty"`
}

type EquipmentDTO struct {
	ID             uint64 `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	DepartmentID   uint64 `json:"department_id"`
	Department     string `json:"department,omitempty"`
	Description    string `json:"description,omitempty"`
	Specifications string `json:"specifications,omitempty"`
	Status         string `json:"status"`
	PurchaseDate   string `json:"purchase_date,omitempty"`
	WarrantyDate   string `json:"warranty_date,omitempty"`
	AIDescription  string `json:"ai_description,omitempty"`
	UsageTips      string `json:"usage_tips,omitempty"`
}
