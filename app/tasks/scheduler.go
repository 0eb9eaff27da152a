package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/epghub/epghub/app/config"
	"github.com/epghub/epghub/app/guide"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs guide reloads on a worker pool. Each configured source is
// reloaded when its refresh interval elapses; next-run times live in the
// scheduler because the store keeps no per-source bookkeeping (every reload
// fully replaces the guide).
type Scheduler struct {
	reloader    *guide.Reloader
	sources     map[string]*config.SourceConfig
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	nextRunMu sync.Mutex
	nextRun   map[string]time.Time
}

func NewScheduler(reloader *guide.Reloader, sources map[string]*config.SourceConfig,
	interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		reloader:    reloader,
		sources:     sources,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
		nextRun:     make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueDueTasks() {
	if len(s.sources) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	now := time.Now().UTC()

	for id, sourceConfig := range s.sources {
		if !sourceConfig.Settings.Enabled {
			slog.Debug("Source disabled, skipping", "source", id)
			continue
		}

		if !s.due(id, now) {
			continue
		}

		task := NewReloadSourceTask(sourceConfig, s.reloader)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue ReloadSourceTask", "source", id, "error", err)
			continue
		}

		s.setNextRun(id, now.Add(time.Duration(sourceConfig.Settings.RefreshInterval)*time.Second))
	}
}

func (s *Scheduler) due(sourceID string, now time.Time) bool {
	s.nextRunMu.Lock()
	defer s.nextRunMu.Unlock()
	next, ok := s.nextRun[sourceID]
	return !ok || !next.After(now)
}

func (s *Scheduler) setNextRun(sourceID string, next time.Time) {
	s.nextRunMu.Lock()
	defer s.nextRunMu.Unlock()
	s.nextRun[sourceID] = next
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
