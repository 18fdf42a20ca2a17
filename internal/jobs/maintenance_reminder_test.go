package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-system/internal/entities"
	apperrors "lab-system/pkg/errors"
)

type sentMail struct {
	recipient string
	subject   string
	body      string
}

type fakeMailTransport struct {
	mu   sync.Mutex
	sent []sentMail
}

func (t *fakeMailTransport) Send(ctx context.Context, recipient, subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

type fakeStaffRepo struct {
	staff []entities.User
}

func (r *fakeStaffRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeStaffRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeStaffRepo) FindStaff(ctx context.Context) ([]entities.User, error) {
	return r.staff, nil
}

func warrantyEquipment(id uint64, name string) entities.Equipment {
	return entities.Equipment{
		ID:           id,
		Code:         "EQ-001",
		Name:         name,
		WarrantyDate: null.TimeFrom(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func TestMaintenanceReminderSendsToStaff(t *testing.T) {
	repo := &fakeEquipmentRepo{warranty: []entities.Equipment{
		warrantyEquipment(1, "Осциллограф"),
		warrantyEquipment(2, "Центрифуга"),
	}}
	userRepo := &fakeStaffRepo{staff: []entities.User{
		{ID: 77, Email: "teacher@dnu.tj"},
		{ID: 78, Email: "admin@dnu.tj"},
	}}
	transport := &fakeMailTransport{}
	gen := &fakeGenerator{}
	job := NewMaintenanceReminderJob(repo, userRepo, transport, gen, 30, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, transport.sent, 2)
	assert.Equal(t, "teacher@dnu.tj", transport.sent[0].recipient)
	assert.Equal(t, "admin@dnu.tj", transport.sent[1].recipient)
	assert.Contains(t, transport.sent[0].body, "Осциллограф")
	assert.Contains(t, transport.sent[0].body, "Центрифуга")
	assert.Contains(t, transport.sent[0].body, "Рекомендация: сгенерированный текст")
}

func TestMaintenanceReminderAdviceFailureNonBlocking(t *testing.T) {
	repo := &fakeEquipmentRepo{warranty: []entities.Equipment{
		warrantyEquipment(1, "Осциллограф"),
	}}
	userRepo := &fakeStaffRepo{staff: []entities.User{{ID: 77, Email: "teacher@dnu.tj"}}}
	transport := &fakeMailTransport{}
	gen := &fakeGenerator{failOn: "Осциллограф"}
	job := NewMaintenanceReminderJob(repo, userRepo, transport, gen, 30, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].body, "Осциллограф")
	assert.NotContains(t, transport.sent[0].body, "Рекомендация")
}

func TestMaintenanceReminderNothingExpiring(t *testing.T) {
	repo := &fakeEquipmentRepo{}
	userRepo := &fakeStaffRepo{}
	transport := &fakeMailTransport{}
	gen := &fakeGenerator{}
	job := NewMaintenanceReminderJob(repo, userRepo, transport, gen, 30, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, transport.sent)
	assert.Zero(t, gen.callCount())
}
