package dto

import "time"

type CreateBookingDTO struct {
	EquipmentID uint64    `json:"equipment_id" validate:"required,gt=0"`
	PickupTime  time.Time `json:"pickup_time"  validate:"required"`
	ReturnTime  time.Time `json:"return_time"  validate:"required"`
	Purpose     string    `json:"purpose"      validate:"required"`
}

// DecisionDTO - решение персонала по заявке (approve/reject).
type DecisionDTO struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type BookingDTO struct {
	ID          uint64  `json:"id"`
	EquipmentID uint64  `json:"equipment_id"`
	Equipment   string  `json:"equipment,omitempty"`
	Requester   string  `json:"requester,omitempty"`
	PickupTime  string  `json:"pickup_time"`
	ReturnTime  string  `json:"return_time"`
	Purpose     string  `json:"purpose"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	ApprovedBy  *uint64 `json:"approved_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// BookingFilter - фильтр списка бронирований.
type BookingFilter struct {
	Status      string
	EquipmentID uint64
	UserID      uint64 // только брони этого пользователя
	Limit       uint64
	Offset      uint64
}
