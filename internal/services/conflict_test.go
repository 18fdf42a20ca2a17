package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lab-system/internal/entities"
	"lab-system/pkg/constants"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name     string
		a1, a2   time.Time
		b1, b2   time.Time
		expected bool
	}{
		{
			name: "частичное пересечение",
			a1:   at(9, 0), a2: at(11, 0),
			b1: at(10, 0), b2: at(12, 0),
			expected: true,
		},
		{
			name: "касание границ не конфликт",
			a1:   at(9, 0), a2: at(11, 0),
			b1: at(11, 0), b2: at(13, 0),
			expected: false,
		},
		{
			name: "интервал целиком внутри",
			a1:   at(9, 0), a2: at(13, 0),
			b1: at(10, 0), b2: at(11, 0),
			expected: true,
		},
		{
			name: "одинаковые интервалы",
			a1:   at(9, 0), a2: at(11, 0),
			b1: at(9, 0), b2: at(11, 0),
			expected: true,
		},
		{
			name: "непересекающиеся интервалы",
			a1:   at(9, 0), a2: at(10, 0),
			b1: at(12, 0), b2: at(13, 0),
			expected: false,
		},
		{
			name: "симметрия: второй раньше первого",
			a1:   at(10, 0), a2: at(12, 0),
			b1: at(9, 0), b2: at(11, 0),
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.a1, tc.a2, tc.b1, tc.b2))
		})
	}
}

func TestFirstConflict(t *testing.T) {
	checker := NewConflictChecker()

	existing := []entities.Booking{
		{ID: 1, Status: constants.BookingStatusApproved, PickupTime: at(9, 0), ReturnTime: at(11, 0)},
		{ID: 2, Status: constants.BookingStatusRejected, PickupTime: at(11, 0), ReturnTime: at(15, 0)},
		{ID: 3, Status: constants.BookingStatusPending, PickupTime: at(16, 0), ReturnTime: at(18, 0)},
	}

	t.Run("пересечение с утвержденной бронью", func(t *testing.T) {
		conflict := checker.FirstConflict(at(10, 0), at(12, 0), existing, 0)
		require.NotNil(t, conflict)
		assert.Equal(t, uint64(1), conflict.ID)
	})

	t.Run("смежный интервал проходит", func(t *testing.T) {
		conflict := checker.FirstConflict(at(11, 0), at(13, 0), existing, 0)
		assert.Nil(t, conflict)
	})

	t.Run("отклоненная бронь не учитывается", func(t *testing.T) {
		conflict := checker.FirstConflict(at(12, 0), at(14, 0), existing, 0)
		assert.Nil(t, conflict)
	})

	t.Run("ожидающая бронь учитывается", func(t *testing.T) {
		conflict := checker.FirstConflict(at(17, 0), at(19, 0), existing, 0)
		require.NotNil(t, conflict)
		assert.Equal(t, uint64(3), conflict.ID)
	})

	t.Run("собственная бронь исключается при повторной проверке", func(t *testing.T) {
		conflict := checker.FirstConflict(at(9, 0), at(11, 0), existing, 1)
		assert.Nil(t, conflict)
	})
}
