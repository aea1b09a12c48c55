package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when no entity exists under the requested id.
var ErrNotFound = errors.New("entity not found")

// MemoryRepository keeps entities in process memory only. Session state is
// contractually ephemeral, so nothing is ever written to disk or a database.
type MemoryRepository[T any] struct {
	mu          sync.RWMutex
	collections map[string]map[string]T
}

func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{collections: make(map[string]map[string]T)}
}

func (r *MemoryRepository[T]) Create(ctx context.Context, collectionName string, id string, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.collections[collectionName]
	if !ok {
		collection = make(map[string]T)
		r.collections[collectionName] = collection
	}

	if _, exists := collection[id]; exists {
		var zero T
		return zero, fmt.Errorf("entity %q already exists in %s", id, collectionName)
	}

	collection[id] = entity
	return entity, nil
}

func (r *MemoryRepository[T]) Update(ctx context.Context, collectionName string, id string, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.collections[collectionName]
	if !ok {
		collection = make(map[string]T)
		r.collections[collectionName] = collection
	}

	// Upsert; callers treat Update as write-through.
	collection[id] = entity
	return entity, nil
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, collectionName string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.collections[collectionName]
	if !ok {
		return ErrNotFound
	}
	if _, exists := collection[id]; !exists {
		return ErrNotFound
	}

	delete(collection, id)
	return nil
}

func (r *MemoryRepository[T]) FindByID(ctx context.Context, collectionName string, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero T
	collection, ok := r.collections[collectionName]
	if !ok {
		return zero, ErrNotFound
	}

	entity, exists := collection[id]
	if !exists {
		return zero, ErrNotFound
	}
	return entity, nil
}

func (r *MemoryRepository[T]) FindAll(ctx context.Context, collectionName string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection, ok := r.collections[collectionName]
	if !ok {
		return nil, nil
	}

	entities := make([]T, 0, len(collection))
	for _, entity := range collection {
		entities = append(entities, entity)
	}
	return entities, nil
}
