package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"lab-system/internal/entities"
)

// Виды событий жизненного цикла бронирования.
const (
	BookingCreatedName   = "booking.created"
	BookingApprovedName  = "booking.approved"
	BookingRejectedName  = "booking.rejected"
	BookingCancelledName = "booking.cancelled"
	BookingCompletedName = "booking.completed"
)

// BookingEvent несёт снимок брони на момент перехода.
// Key() - id брони: события одной брони доставляются по порядку.
type BookingEvent struct {
	EventID    string
	EventName  string
	Booking    entities.Booking
	OccurredAt time.Time
}

func (e BookingEvent) Name() string { return e.EventName }

func (e BookingEvent) Key() string { return strconv.FormatUint(e.Booking.ID, 10) }

// Kind - часть имени после "booking." (created, approved, ...).
func (e BookingEvent) Kind() string {
	const prefix = "booking."
	if len(e.EventName) > len(prefix) {
		return e.EventName[len(prefix):]
	}
	return e.EventName
}

func NewBookingEvent(name string, booking entities.Booking) BookingEvent {
	return BookingEvent{EventID: uuid.NewString(), EventName: name, Booking: booking, OccurredAt: time.Now()}
}
