package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLevelRepo реализует LevelRepo в памяти.
// Используется по умолчанию и в тестах.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryLevelRepo struct {
	mu   sync.RWMutex
	data map[string]*LevelRecord
}

// NewMemoryLevelRepo создает новый репозиторий уровней в памяти.
func NewMemoryLevelRepo() *MemoryLevelRepo {
	return &MemoryLevelRepo{
		data: make(map[string]*LevelRecord),
	}
}

// Save сохраняет копию записи.
func (r *MemoryLevelRepo) Save(ctx context.Context, rec *LevelRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("недействительный ID уровня")
	}

	// Проверяем контекст на отмену
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[rec.ID] = rec.Clone()
	return nil
}

// Load возвращает копию записи.
func (r *MemoryLevelRepo) Load(ctx context.Context, id string) (*LevelRecord, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.data[id]
	if !exists {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

// Delete удаляет уровень из памяти.
func (r *MemoryLevelRepo) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}
	delete(r.data, id)
	return nil
}

// List возвращает копии всех записей.
func (r *MemoryLevelRepo) List(ctx context.Context) ([]*LevelRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	recs := make([]*LevelRecord, 0, len(r.data))
	for _, rec := range r.data {
		recs = append(recs, rec.Clone())
	}
	r.mu.RUnlock()

	sortRecords(recs)
	return recs, nil
}

// Count возвращает количество сохраненных уровней (для отладки).
func (r *MemoryLevelRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Close ничего не делает.
func (r *MemoryLevelRepo) Close() error {
	return nil
}
