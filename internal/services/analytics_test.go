package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-system/internal/entities"
	"lab-system/pkg/constants"
)

func analyticsBooking(equipmentID uint64, role, department, status string, hours int) entities.Booking {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return entities.Booking{
		EquipmentID: equipmentID,
		Status:      status,
		PickupTime:  start,
		ReturnTime:  start.Add(time.Duration(hours) * time.Hour),
		Requester:   &entities.User{Role: role},
		Equipment: &entities.Equipment{
			ID:         equipmentID,
			Name:       "прибор",
			Department: &entities.Department{Name: department},
		},
	}
}

func TestAggregate(t *testing.T) {
	bookings := []entities.Booking{
		analyticsBooking(1, constants.RoleStudent, "Физика", constants.BookingStatusApproved, 2),
		analyticsBooking(1, constants.RoleStudent, "Физика", constants.BookingStatusRejected, 4),
		analyticsBooking(1, constants.RoleTeacher, "Физика", constants.BookingStatusCompleted, 6),
		analyticsBooking(2, constants.RoleStudent, "Химия", constants.BookingStatusPending, 3),
	}

	snapshot := aggregate(bookings, 30)

	assert.Equal(t, 30, snapshot.WindowDays)
	require.Len(t, snapshot.Groups, 3)
	require.Len(t, snapshot.Equipment, 2)

	// Срезы отсортированы по подразделению и роли.
	students := snapshot.Groups[0]
	assert.Equal(t, "Физика", students.Department)
	assert.Equal(t, constants.RoleStudent, students.Role)
	assert.Equal(t, 2, students.BookingCount)
	assert.InDelta(t, 3.0, students.AvgDurationHours, 0.001)
	// Один approved из двух.
	assert.InDelta(t, 0.5, students.ApprovalRate, 0.001)

	teachers := snapshot.Groups[1]
	assert.Equal(t, constants.RoleTeacher, teachers.Role)
	assert.Equal(t, 1, teachers.BookingCount)
	// completed засчитывается как одобренная.
	assert.InDelta(t, 1.0, teachers.ApprovalRate, 0.001)

	chemistry := snapshot.Groups[2]
	assert.Equal(t, "Химия", chemistry.Department)
	// pending не одобрена.
	assert.InDelta(t, 0.0, chemistry.ApprovalRate, 0.001)

	// Агрегаты по оборудованию.
	first := snapshot.Equipment[0]
	assert.Equal(t, uint64(1), first.EquipmentID)
	assert.Equal(t, 3, first.BookingCount)
	assert.InDelta(t, 4.0, first.AvgDurationHours, 0.001)
	assert.InDelta(t, 2.0/3.0, first.ApprovalRate, 0.001)
}

func TestAggregateEmpty(t *testing.T) {
	snapshot := aggregate(nil, 30)
	assert.Empty(t, snapshot.Groups)
	assert.Empty(t, snapshot.Equipment)
}
