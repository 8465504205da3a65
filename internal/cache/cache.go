// cache — процессный кэш «ключ -> (значение, expiresAt)» с ленивым истечением.
//
// Основные аспекты:
//   - просроченная запись считается отсутствующей уже при чтении, фоновая
//     очистка (Run) нужна только для ограничения памяти;
//   - значение отдаётся как есть (без копирования), вызывающий код не должен его мутировать;
//   - все операции защищены RWMutex и безопасны для конкурентного использования.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache — минимальный контракт кэша с TTL.
type Cache[V any] interface {
	// Get возвращает живую запись и признак её наличия.
	Get(key string) (V, bool)
	// Set сохраняет (или перезаписывает) запись с TTL.
	Set(key string, value V, ttl time.Duration)
	// Flush безусловно удаляет все записи.
	Flush()
	// Len — количество записей, включая ещё не вычищенные просроченные.
	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory — реализация Cache на map.
type Memory[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	now   func() time.Time
}

// Option настраивает Memory.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewMemory создаёт пустой кэш.
func NewMemory[V any](opts ...Option) *Memory[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Memory[V]{
		items: make(map[string]entry[V]),
		now:   o.now,
	}
}

func (c *Memory[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Запись могли перезаписать между RUnlock и Lock.
		if cur, ok := c.items[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()

		return zero, false
	}

	return e.value, true
}

// Set с ttl <= 0 ничего не сохраняет.
func (c *Memory[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Memory[V]) Flush() {
	c.mu.Lock()
	c.items = make(map[string]entry[V])
	c.mu.Unlock()
}

func (c *Memory[V]) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Sweep удаляет просроченные записи и возвращает их количество.
func (c *Memory[V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}

	return removed
}

// Run периодически вызывает Sweep до отмены ctx.
// interval <= 0 — сразу возвращает управление.
func (c *Memory[V]) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Проверка на соответствие интерфейсу Cache.
var _ Cache[int] = (*Memory[int])(nil)
