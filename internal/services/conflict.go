package services

import (
	"time"

	"lab-system/internal/entities"
	"lab-system/pkg/constants"
)

// Overlaps сообщает, пересекаются ли полуоткрытые интервалы [a1, a2) и [b1, b2).
// Совпадение границ пересечением не считается: возврат в 11:00 и выдача в 11:00
// совместимы.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// ConflictChecker - чистая проверка пересечений кандидата с активными бронями.
// Побочных эффектов нет; набор существующих броней поставляет репозиторий.
type ConflictChecker struct{}

func NewConflictChecker() *ConflictChecker {
	return &ConflictChecker{}
}

// FirstConflict возвращает первую активную бронь, пересекающуюся с интервалом
// [pickupTime, returnTime), или nil. Собственная бронь кандидата (excludeID)
// при повторной проверке не учитывается.
func (c *ConflictChecker) FirstConflict(pickupTime, returnTime time.Time, existing []entities.Booking, excludeID uint64) *entities.Booking {
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID {
			continue
		}
		if !constants.IsActiveBookingStatus(b.Status) {
			continue
		}
		if Overlaps(pickupTime, returnTime, b.PickupTime, b.ReturnTime) {
			return b
		}
	}
	return nil
}
