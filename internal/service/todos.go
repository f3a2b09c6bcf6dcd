// Package service holds the application services injected into the HTTP handlers.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"todolist/internal/models"
	"todolist/pkg/logger"
)

// Repository is the todo store.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (*models.Todo, error)
	Create(ctx context.Context, in models.TodoCreate) (*models.Todo, error)
	Update(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Cache stores encoded todo payloads.
type Cache interface {
	GetRawTodos(ctx context.Context) ([]byte, bool)
	SetRawTodos(ctx context.Context, b []byte)
	GetRawTodo(ctx context.Context, id int64) ([]byte, bool)
	SetRawTodo(ctx context.Context, id int64, b []byte)
	InvalidateTodo(ctx context.Context, id int64)
	Ping(ctx context.Context) error
}

// Publisher emits change events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, ev models.TodoEvent) error
}

// Todos implements the entity API on top of the store, the read cache and the event stream.
type Todos struct {
	repo   Repository
	cache  Cache
	events Publisher
	group  singleflight.Group
	now    func() time.Time

	// fillMu orders cache fills against invalidations; writes counts
	// invalidations so a fill started before a write is dropped.
	fillMu sync.RWMutex
	writes uint64
}

// NewTodos wires the service. cache and events may be nil.
func NewTodos(repo Repository, cache Cache, events Publisher) *Todos {
	if cache == nil {
		cache = noCache{}
	}
	if events == nil {
		events = noEvents{}
	}
	return &Todos{repo: repo, cache: cache, events: events, now: time.Now}
}

// ListRaw returns every todo as a JSON array, cache-first. Concurrent misses share one store read.
func (s *Todos) ListRaw(ctx context.Context) ([]byte, error) {
	if b, ok := s.cache.GetRawTodos(ctx); ok {
		return b, nil
	}
	v, err, _ := s.group.Do(listFlightKey, func() (any, error) {
		gen := s.generation()
		todos, err := s.repo.GetAll(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(todos)
		if err != nil {
			return nil, fmt.Errorf("encoding todos: %w", err)
		}
		s.fill(gen, func() { s.cache.SetRawTodos(ctx, b) })
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "Fetched todos from store")
	return v.([]byte), nil
}

// GetRaw returns one todo as JSON, cache-first.
func (s *Todos) GetRaw(ctx context.Context, id int64) ([]byte, error) {
	if b, ok := s.cache.GetRawTodo(ctx, id); ok {
		return b, nil
	}
	v, err, _ := s.group.Do(itemFlightKey(id), func() (any, error) {
		gen := s.generation()
		todo, err := s.repo.Get(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(todo)
		if err != nil {
			return nil, fmt.Errorf("encoding todo: %w", err)
		}
		s.fill(gen, func() { s.cache.SetRawTodo(ctx, id, b) })
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Create validates and stores a new todo.
func (s *Todos) Create(ctx context.Context, in models.TodoCreate) (*models.Todo, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	todo, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Todo created", "id", todo.ID)
	s.afterWrite(ctx, models.EventCreated, todo.ID)
	return todo, nil
}

// Update applies only the supplied patch fields.
func (s *Todos) Update(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	todo, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		logger.Info(ctx, "Todo updated", "id", id)
		s.afterWrite(ctx, models.EventUpdated, id)
	}
	return todo, nil
}

// Delete removes a todo.
func (s *Todos) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "Todo deleted", "id", id)
	s.afterWrite(ctx, models.EventDeleted, id)
	return nil
}

// Ready reports whether the store and cache are reachable.
func (s *Todos) Ready(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *Todos) generation() uint64 {
	s.fillMu.RLock()
	defer s.fillMu.RUnlock()
	return s.writes
}

// fill stores a payload read at generation gen unless a write was invalidated since.
func (s *Todos) fill(gen uint64, set func()) {
	s.fillMu.RLock()
	defer s.fillMu.RUnlock()
	if s.writes != gen {
		return
	}
	set()
}

// afterWrite invalidates the cache and in-flight reads for id, then publishes the event.
// Readers arriving after this returns start a fresh store read.
func (s *Todos) afterWrite(ctx context.Context, action string, id int64) {
	s.fillMu.Lock()
	s.writes++
	s.group.Forget(listFlightKey)
	s.group.Forget(itemFlightKey(id))
	s.cache.InvalidateTodo(ctx, id)
	s.fillMu.Unlock()

	ev := models.TodoEvent{Action: action, ID: id, OccurredAt: s.now().UTC()}
	if err := s.events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Publishing todo event failed", "error", err, "action", action, "id", id)
	}
}

const listFlightKey = "todos"

func itemFlightKey(id int64) string {
	return "todo:" + strconv.FormatInt(id, 10)
}

type noCache struct{}

func (noCache) GetRawTodos(context.Context) ([]byte, bool) { return nil, false }
func (noCache) SetRawTodos(context.Context, []byte) {}
func (noCache) GetRawTodo(context.Context, int64) ([]byte, bool) { return nil, false }
func (noCache) SetRawTodo(context.Context, int64, []byte) {}
func (noCache) InvalidateTodo(context.Context, int64) {}
func (noCache) Ping(context.Context) error { return nil }

type noEvents struct{}

func (noEvents) Publish(context.Context, models.TodoEvent) error { return nil }
