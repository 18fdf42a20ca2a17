package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Equipment struct {
	ID             uint64      `json:"id"`
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	DepartmentID   uint64      `json:"department_id"`
	Description    string      `json:"description"`
	Specifications string      `json:"specifications"`
	Status         string      `json:"status"`
	PurchaseDate   null.Time   `json:"purchase_date"`
	WarrantyDate   null.Time   `json:"warranty_date"`
	AIDescription  null.String `json:"ai_description"`
	UsageTips      null.String `json:"usage_tips"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Поля для связанных данных (не колонки в таблице)
	Department *Department `json:"department,omitempty" db:"-"`
}
