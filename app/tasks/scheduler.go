package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/okhomin/recipe-rack/app/cfg"
	"github.com/okhomin/recipe-rack/app/database"
	"github.com/okhomin/recipe-rack/app/recipe"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs registry housekeeping: at startup and on every rescan
// interval it re-reads the recipes directory and syncs each recipe file
// into the registry. Feed fetching is not scheduled here; that belongs
// to the aggregation engine consuming the registry.
type Scheduler struct {
	recipeRepo  database.RecipeRepository
	feedRepo    database.FeedRepository
	cache       *recipe.Cache
	recipesDir  string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(cache *recipe.Cache, recipeRepo database.RecipeRepository,
	feedRepo database.FeedRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		recipeRepo:  recipeRepo,
		feedRepo:    feedRepo,
		cache:       cache,
		recipesDir:  cfg.RecipesDir,
		interval:    time.Duration(cfg.RescanInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
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

		s.enqueueSyncTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueSyncTasks()
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

// enqueueSyncTasks scans the recipes directory so edits to known
// recipes and newly authored files both get picked up.
func (s *Scheduler) enqueueSyncTasks() {
	files, err := filepath.Glob(filepath.Join(s.recipesDir, "*.yml"))
	if err != nil {
		slog.Warn("Failed to scan recipes directory", "dir", s.recipesDir, "error", err)
		return
	}

	if len(files) == 0 {
		slog.Debug("No recipe files found", "dir", s.recipesDir)
		return
	}

	slog.Debug("Scheduling recipe sync", "count", len(files))

	for _, file := range files {
		fileName := filepath.Base(file)
		recipeName := fileName[:len(fileName)-4]

		syncTask := NewSyncRecipeTask(recipeName, s.cache, s.recipeRepo, s.feedRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncRecipeTask", "recipe", recipeName, "error", err)
		}
	}
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

	taskCtx, cancel := context.WithTimeout(s.ctx, time.Minute)
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

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "recipe", task.GetRecipeName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

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
