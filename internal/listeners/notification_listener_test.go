package listeners

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-system/internal/entities"
	"lab-system/internal/events"
	"lab-system/internal/repositories"
	"lab-system/pkg/constants"
	apperrors "lab-system/pkg/errors"
)

type fakeTransport struct {
	mu      sync.Mutex
	sent    []string // адресаты в порядке отправки
	failFor map[string]bool
}

func (t *fakeTransport) Send(ctx context.Context, recipient, subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failFor[recipient] {
		return &apperrors.TransportError{Recipient: recipient, Err: fmt.Errorf("smtp недоступен")}
	}
	t.sent = append(t.sent, recipient)
	return nil
}

func (t *fakeTransport) recipients() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

type fakeUserRepo struct {
	users map[uint64]*entities.User
	staff []entities.User
}

func (r *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindStaff(ctx context.Context) ([]entities.User, error) {
	return r.staff, nil
}

func newListenerFixture(failFor map[string]bool) (*NotificationListener, *fakeTransport) {
	transport := &fakeTransport{failFor: failFor}
	userRepo := &fakeUserRepo{
		users: map[uint64]*entities.User{
			10: {ID: 10, Fio: "Иванов И.И.", Email: "student@dnu.tj", Role: constants.RoleStudent},
		},
		staff: []entities.User{
			{ID: 77, Fio: "Петров П.П.", Email: "teacher@dnu.tj", Role: constants.RoleTeacher},
		},
	}
	listener := NewNotificationListener(transport, userRepo, repositories.NewMemoryCacheRepository(), zap.NewNop())
	return listener, transport
}

func bookingEvent(name string, bookingID uint64) events.BookingEvent {
	return events.NewBookingEvent(name, entities.Booking{
		ID:         bookingID,
		UserID:     10,
		PickupTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		ReturnTime: time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC),
	})
}

func TestNotificationSent(t *testing.T) {
	listener, transport := newListenerFixture(nil)

	err := listener.handleBookingEvent(context.Background(), bookingEvent(events.BookingApprovedName, 42))
	require.NoError(t, err)
	assert.Equal(t, []string{"student@dnu.tj"}, transport.recipients())
}

func TestNotificationDeduplicated(t *testing.T) {
	listener, transport := newListenerFixture(nil)
	event := bookingEvent(events.BookingApprovedName, 42)

	// Шина гарантирует доставку "как минимум один раз": повторное событие
	// той же пары (бронь, вид) письма не порождает.
	require.NoError(t, listener.handleBookingEvent(context.Background(), event))
	require.NoError(t, listener.handleBookingEvent(context.Background(), event))

	assert.Len(t, transport.recipients(), 1)
}

func TestNotificationDifferentKindsNotDeduplicated(t *testing.T) {
	listener, transport := newListenerFixture(nil)

	require.NoError(t, listener.handleBookingEvent(context.Background(), bookingEvent(events.BookingApprovedName, 42)))
	require.NoError(t, listener.handleBookingEvent(context.Background(), bookingEvent(events.BookingCompletedName, 42)))

	assert.Len(t, transport.recipients(), 2)
}

func TestStaffCopiesOnCreation(t *testing.T) {
	listener, transport := newListenerFixture(nil)

	require.NoError(t, listener.handleBookingEvent(context.Background(), bookingEvent(events.BookingCreatedName, 42)))
	assert.ElementsMatch(t, []string{"teacher@dnu.tj", "student@dnu.tj"}, transport.recipients())
}

func TestStaffCopyFailureIsSilent(t *testing.T) {
	listener, transport := newListenerFixture(map[string]bool{"teacher@dnu.tj": true})

	// Сбой копии персоналу не считается ошибкой обработки.
	err := listener.handleBookingEvent(context.Background(), bookingEvent(events.BookingCreatedName, 42))
	require.NoError(t, err)
	assert.Equal(t, []string{"student@dnu.tj"}, transport.recipients())
}

func TestPrimaryFailureSurfaced(t *testing.T) {
	listener, transport := newListenerFixture(map[string]bool{"student@dnu.tj": true})

	err := listener.handleBookingEvent(context.Background(), bookingEvent(events.BookingApprovedName, 42))
	var tErr *apperrors.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Empty(t, transport.recipients())
}
