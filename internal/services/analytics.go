package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/entities"
	"lab-system/internal/repositories"
	"lab-system/pkg/constants"

	"go.uber.org/zap"
)

const analyticsSnapshotKey = "analytics:snapshot"

type AnalyticsServiceInterface interface {
	BuildSnapshot(ctx context.Context, windowDays int) (*dto.AnalyticsSnapshotDTO, error)
	GetSnapshot(ctx context.Context, windowDays int) (*dto.AnalyticsSnapshotDTO, error)
}

// AnalyticsService агрегирует использование оборудования за отчетное окно.
// Чтение без мутаций; готовая сводка кешируется до следующего пересчета.
type AnalyticsService struct {
	bookingRepo repositories.BookingRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	logger      *zap.Logger
}

func NewAnalyticsService(
	bookingRepo repositories.BookingRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) AnalyticsServiceInterface {
	return &AnalyticsService{
		bookingRepo: bookingRepo,
		cache:       cache,
		logger:      logger,
	}
}

type statsAccumulator struct {
	count         int
	totalDuration float64
	approvedCount int
}

func (a *statsAccumulator) add(b *entities.Booking) {
	a.count++
	a.totalDuration += b.DurationHours()
	if b.Status == constants.BookingStatusApproved || b.Status == constants.BookingStatusCompleted {
		a.approvedCount++
	}
}

func (a *statsAccumulator) avgDuration() float64 {
	if a.count == 0 {
		return 0
	}
	return a.totalDuration / float64(a.count)
}

func (a *statsAccumulator) approvalRate() float64 {
	if a.count == 0 {
		return 0
	}
	return float64(a.approvedCount) / float64(a.count)
}

// BuildSnapshot пересчитывает сводку за последние windowDays дней
// и кладет результат в кеш.
func (s *AnalyticsService) BuildSnapshot(ctx context.Context, windowDays int) (*dto.AnalyticsSnapshotDTO, error) {
	since := time.Now().AddDate(0, 0, -windowDays)
	bookings, err := s.bookingRepo.GetBookingsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	snapshot := aggregate(bookings, windowDays)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации сводки: %w", err)
	}
	// Кеш живет два окна пересчета: устаревшая сводка лучше пустой.
	if err := s.cache.Set(ctx, analyticsSnapshotKey, string(payload), 48*time.Hour); err != nil {
		s.logger.Error("не удалось закешировать сводку", zap.Error(err))
	}

	s.logger.Info("сводка использования пересчитана",
		zap.Int("window_days", windowDays),
		zap.Int("bookings", len(bookings)),
		zap.Int("groups", len(snapshot.Groups)),
		zap.Int("equipment", len(snapshot.Equipment)),
	)
	return snapshot, nil
}

// GetSnapshot возвращает сводку из кеша, при промахе пересчитывает.
func (s *AnalyticsService) GetSnapshot(ctx context.Context, windowDays int) (*dto.AnalyticsSnapshotDTO, error) {
	raw, err := s.cache.Get(ctx, analyticsSnapshotKey)
	if err == nil && raw != "" {
		var snapshot dto.AnalyticsSnapshotDTO
		if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
			return &snapshot, nil
		}
	}
	return s.BuildSnapshot(ctx, windowDays)
}

func aggregate(bookings []entities.Booking, windowDays int) *dto.AnalyticsSnapshotDTO {
	type groupKey struct {
		department string
		role       string
	}

	groups := make(map[groupKey]*statsAccumulator)
	equipment := make(map[uint64]*statsAccumulator)
	equipmentNames := make(map[uint64]string)

	for i := range bookings {
		b := &bookings[i]

		key := groupKey{}
		if b.Requester != nil {
			key.role = b.Requester.Role
		}
		if b.Equipment != nil && b.Equipment.Department != nil {
			key.department = b.Equipment.Department.Name
		}
		if groups[key] == nil {
			groups[key] = &statsAccumulator{}
		}
		groups[key].add(b)

		if equipment[b.EquipmentID] == nil {
			equipment[b.EquipmentID] = &statsAccumulator{}
		}
		equipment[b.EquipmentID].add(b)
		if b.Equipment != nil {
			equipmentNames[b.EquipmentID] = b.Equipment.Name
		}
	}

	snapshot := &dto.AnalyticsSnapshotDTO{
		GeneratedAt: time.Now().Format(time.RFC3339),
		WindowDays:  windowDays,
		Groups:      make([]dto.GroupStatsDTO, 0, len(groups)),
		Equipment:   make([]dto.EquipmentStatsDTO, 0, len(equipment)),
	}

	for key, acc := range groups {
		snapshot.Groups = append(snapshot.Groups, dto.GroupStatsDTO{
			Department:       key.department,
			Role:             key.role,
			BookingCount:     acc.count,
			AvgDurationHours: acc.avgDuration(),
			ApprovalRate:     acc.approvalRate(),
		})
	}
	sort.Slice(snapshot.Groups, func(i, j int) bool {
		if snapshot.Groups[i].Department != snapshot.Groups[j].Department {
			return snapshot.Groups[i].Department < snapshot.Groups[j].Department
		}
		return snapshot.Groups[i].Role < snapshot.Groups[j].Role
	})

	for id, acc := range equipment {
		snapshot.Equipment = append(snapshot.Equipment, dto.EquipmentStatsDTO{
			EquipmentID:      id,
			EquipmentName:    equipmentNames[id],
			BookingCount:     acc.count,
			AvgDurationHours: acc.avgDuration(),
			ApprovalRate:     acc.approvalRate(),
		})
	}
	sort.Slice(snapshot.Equipment, func(i, j int) bool {
		return snapshot.Equipment[i].EquipmentID < snapshot.Equipment[j].EquipmentID
	})

	return snapshot
}
