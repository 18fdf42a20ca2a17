package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job - единица фоновой работы. Run обрабатывает весь пакет, глотая
// ошибки отдельных элементов; ошибка возвращается только если пакет
// не удалось даже начать.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// Scheduler запускает задачи по фиксированным интервалам на собственных
// горутинах, не затрагивая обработку запросов. RunNow позволяет запустить
// задачу вне расписания.
type Scheduler struct {
	jobs   map[string]scheduledJob
	mu     sync.Mutex
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs:   make(map[string]scheduledJob),
		logger: logger,
	}
}

func (s *Scheduler) Register(job Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name()] = scheduledJob{job: job, interval: interval}
}

// Start запускает по горутине на задачу. Останавливается отменой ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sj := range s.jobs {
		s.wg.Add(1)
		go func(sj scheduledJob) {
			defer s.wg.Done()
			s.runLoop(ctx, sj)
		}(sj)
		s.logger.Info("фоновая задача зарегистрирована",
			zap.String("job", sj.job.Name()),
			zap.Duration("interval", sj.interval),
		)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, sj scheduledJob) {
	ticker := time.NewTicker(sj.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, sj.job)
		}
	}
}

// RunNow выполняет задачу немедленно, синхронно.
func (s *Scheduler) RunNow(ctx context.Context, name string) bool {
	s.mu.Lock()
	sj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.runOnce(ctx, sj.job)
	return true
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	started := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("фоновая задача завершилась с ошибкой",
			zap.String("job", job.Name()),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("фоновая задача выполнена",
		zap.String("job", job.Name()),
		zap.Duration("took", time.Since(started)),
	)
}

// Wait блокирует до остановки всех циклов.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
