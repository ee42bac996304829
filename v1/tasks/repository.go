package tasks

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/tasksearch/tasksearch/v1/postgres"
)

// Repository is durable task storage with nearest-neighbour lookup.
// Every error it returns wraps ErrStore.
//
//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=tasks
type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, title, description string, status Status, embedding string) (Task, error)
	Delete(ctx context.Context, id int64) error
	Nearest(ctx context.Context, embedding string, k int) ([]Task, error)
}

const taskColumns = "id, title, description, status"

// Store implements Repository on PostgreSQL with the pgvector extension.
// Each method is a single statement; there is no retry.
type Store struct {
	db *postgres.Postgres
}

func NewStore(db *postgres.Postgres) *Store {
	return &Store{db: db}
}

// Migrate creates the vector extension and the tasks table for embeddings of
// dim components. It is safe to run on every start.
func (s *Store) Migrate(ctx context.Context, dim int) error {
	err := s.db.Migrate(ctx,
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(%d) NOT NULL,
			description VARCHAR(%d) NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('%s', '%s', '%s')),
			embedding vector(%d) NOT NULL
		)`, MaxTitleLength, MaxDescriptionLength, StatusTodo, StatusInProgress, StatusDone, dim),
	)
	if err != nil {
		return storeErr("migrate", err)
	}
	return nil
}

// List returns every task, newest first.
func (s *Store) List(ctx context.Context) ([]Task, error) {
	tasks := make([]Task, 0)
	err := s.db.Query(ctx).
		Select(taskColumns).
		Order("id DESC").
		Find(&tasks)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

// Create inserts one task together with its encoded embedding.
func (s *Store) Create(ctx context.Context, title, description string, status Status, embedding string) (Task, error) {
	var task Task
	err := s.db.ScanRaw(ctx, &task,
		`INSERT INTO tasks (title, description, status, embedding)
		VALUES (?, ?, ?, CAST(? AS vector))
		RETURNING `+taskColumns,
		title, description, string(status), embedding)
	if err != nil {
		return Task{}, storeErr("create task", err)
	}
	return task, nil
}

// Delete removes the task with id. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Delete(ctx, &Task{}, id); err != nil {
		return storeErr("delete task", err)
	}
	return nil
}

// Nearest returns up to k tasks ordered by ascending L2 distance between their
// embedding and the query embedding.
func (s *Store) Nearest(ctx context.Context, embedding string, k int) ([]Task, error) {
	tasks := make([]Task, 0, max(k, 0))
	if k <= 0 {
		return tasks, nil
	}

	byDistance := clause.OrderBy{Expression: clause.Expr{
		SQL:  "embedding <-> CAST(? AS vector)",
		Vars: []interface{}{embedding},
	}}
	err := s.db.Query(ctx).
		Select(taskColumns).
		Order(byDistance).
		Limit(k).
		Find(&tasks)
	if err != nil {
		return nil, storeErr("nearest tasks", err)
	}
	return tasks, nil
}

// storeErr wraps err in ErrStore and the matching postgres sentinel, keeping
// the driver message for logs.
func storeErr(op string, err error) error {
	translated := postgres.TranslateError(err)
	if translated == err {
		return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
	}
	return fmt.Errorf("%w: %s: %w: %v", ErrStore, op, translated, err)
}
