package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Booking - заявка на бронирование оборудования. Владелец сущности - движок
// бронирования; статус меняется только через его переходы. Бронь физически
// не удаляется: отмена - это статус, а не delete.
type Booking struct {
	ID          uint64      `json:"id"`
	UserID      uint64      `json:"user_id"`
	EquipmentID uint64      `json:"equipment_id"`
	PickupTime  time.Time   `json:"pickup_time"`
	ReturnTime  time.Time   `json:"return_time"`
	Purpose     string      `json:"purpose"`
	Status      string      `json:"status"`
	Notes       null.String `json:"notes"`
	ApprovedBy  null.Uint64 `json:"approved_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Связанные данные (не колонки таблицы bookings)
	Requester *User      `json:"requester,omitempty" db:"-"`
	Equipment *Equipment `json:"equipment,omitempty" db:"-"`
}

// DurationHours - длительность брони в часах.
func (b *Booking) DurationHours() float64 {
	return b.ReturnTime.Sub(b.PickupTime).Hours()
}
