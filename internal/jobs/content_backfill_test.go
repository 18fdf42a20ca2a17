package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-system/internal/entities"
	"lab-system/pkg/config"
	apperrors "lab-system/pkg/errors"
)

type fakeEquipmentRepo struct {
	mu         sync.Mutex
	equipments map[uint64]*entities.Equipment
	warranty   []entities.Equipment
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, limit, offset uint64) ([]entities.Equipment, uint64, error) {
	return nil, 0, nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.equipments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEquipmentRepo) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, id)
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	return 0, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	return nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id uint64) error { return nil }

func (r *fakeEquipmentRepo) FindWarrantyExpiring(ctx context.Context, from, to time.Time) ([]entities.Equipment, error) {
	return r.warranty, nil
}

func (r *fakeEquipmentRepo) FindMissingAIContent(ctx context.Context) ([]entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]entities.Equipment, 0)
	for _, e := range r.equipments {
		if !e.AIDescription.Valid || !e.UsageTips.Valid {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *fakeEquipmentRepo) UpdateGeneratedContent(ctx context.Context, id uint64, aiDescription, usageTips null.String) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.equipments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if aiDescription.Valid {
		e.AIDescription = aiDescription
	}
	if usageTips.Valid {
		e.UsageTips = usageTips
	}
	return nil
}

// fakeGenerator отвечает по подстроке промпта и умеет падать на выбранных.
type fakeGenerator struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, prompt)
	if g.failOn != "" && strings.Contains(prompt, g.failOn) {
		return "", &apperrors.GenerationError{Err: fmt.Errorf("квота исчерпана")}
	}
	return "сгенерированный текст", nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func newBackfillFixture(repo *fakeEquipmentRepo, gen *fakeGenerator) *ContentBackfillJob {
	return NewContentBackfillJob(repo, gen, config.AIConfig{}, zap.NewNop())
}

func TestBackfillGeneratesOnlyMissingFields(t *testing.T) {
	repo := &fakeEquipmentRepo{equipments: map[uint64]*entities.Equipment{
		1: {ID: 1, Name: "Осциллограф", AIDescription: null.StringFrom("уже есть")},
	}}
	gen := &fakeGenerator{}
	job := newBackfillFixture(repo, gen)

	require.NoError(t, job.Run(context.Background()))

	// Описание не перезаписывается, генерируются только советы.
	assert.Equal(t, 1, gen.callCount())
	assert.Equal(t, "уже есть", repo.equipments[1].AIDescription.String)
	assert.Equal(t, "сгенерированный текст", repo.equipments[1].UsageTips.String)
}

func TestBackfillSkipsFilledEquipment(t *testing.T) {
	repo := &fakeEquipmentRepo{equipments: map[uint64]*entities.Equipment{
		1: {ID: 1, Name: "Осциллограф", AIDescription: null.StringFrom("a"), UsageTips: null.StringFrom("b")},
	}}
	gen := &fakeGenerator{}
	job := newBackfillFixture(repo, gen)

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, gen.callCount())
}

func TestBackfillPersistsPartialSuccess(t *testing.T) {
	repo := &fakeEquipmentRepo{equipments: map[uint64]*entities.Equipment{
		1: {ID: 1, Name: "Центрифуга"},
	}}
	// Падают только промпты про советы: описание должно сохраниться.
	gen := &fakeGenerator{failOn: "совет"}
	job := newBackfillFixture(repo, gen)

	require.NoError(t, job.Run(context.Background()))

	assert.True(t, repo.equipments[1].AIDescription.Valid)
	assert.False(t, repo.equipments[1].UsageTips.Valid)
}

func TestBackfillFailureDoesNotStopBatch(t *testing.T) {
	repo := &fakeEquipmentRepo{equipments: map[uint64]*entities.Equipment{
		1: {ID: 1, Name: "Ломаный прибор"},
		2: {ID: 2, Name: "Центрифуга"},
	}}
	gen := &fakeGenerator{failOn: "Ломаный"}
	job := newBackfillFixture(repo, gen)

	// Ошибки единиц глотаются: пакет завершается без ошибки.
	require.NoError(t, job.Run(context.Background()))

	assert.True(t, repo.equipments[2].AIDescription.Valid)
	assert.True(t, repo.equipments[2].UsageTips.Valid)
	assert.False(t, repo.equipments[1].AIDescription.Valid)
}
