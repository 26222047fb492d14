package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
)

const taskCacheTTL = 10 * time.Minute

// CachedTaskRepository caches raw aggregates on the read path. Only id
// references are cached, never resolved profiles, so cached entries cannot
// serve stale user display data. Cache failures degrade to the inner
// repository.
type CachedTaskRepository struct {
	inner TaskRepository
	cache cache.Cache
}

func NewCachedTaskRepository(inner TaskRepository, c cache.Cache) *CachedTaskRepository {
	return &CachedTaskRepository{inner: inner, cache: c}
}

func taskCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

func (r *CachedTaskRepository) Save(ctx context.Context, task *models.Task) error {
	if err := r.inner.Save(ctx, task); err != nil {
		return err
	}

	if err := r.cache.Delete(taskCacheKey(task.ID)); err != nil {
		log.Printf("⚠️  Failed to invalidate task cache for %s: %v", task.ID, err)
	}
	return nil
}

func (r *CachedTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	key := taskCacheKey(id)

	var cached models.Task
	if err := r.cache.Get(key, &cached); err == nil {
		return &cached, nil
	}

	task, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(key, task, taskCacheTTL); err != nil {
		log.Printf("⚠️  Failed to cache task %s: %v", id, err)
	}
	return task, nil
}
