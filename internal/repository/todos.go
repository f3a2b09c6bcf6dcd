package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"todolist/internal/apperr"
	"todolist/internal/database"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

const todoColumns = `id, title, description, completed, priority, due_date`

// Todos reads and writes the todoitem table.
type Todos struct {
	db *database.DB
}

// NewTodos creates a repository over db.
func NewTodos(db *database.DB) *Todos {
	return &Todos{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*models.Todo, error) {
	var t models.Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority, &t.DueDate); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAll returns all todos in store order.
func (r *Todos) GetAll(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todoitem ORDER BY id`)
	if err != nil {
		logger.Error(ctx, "Repository GetAll failed", "error", err)
		return nil, &apperr.StoreError{Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, &apperr.StoreError{Op: "list", Err: err}
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StoreError{Op: "list", Err: err}
	}
	return todos, nil
}

// Get returns the todo with the given id or apperr.ErrNotFound.
func (r *Todos) Get(ctx context.Context, id int64) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+todoColumns+` FROM todoitem WHERE id = ?`), id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Get failed", "error", err, "id", id)
		return nil, &apperr.StoreError{Op: "get", Err: err}
	}
	return t, nil
}

// Create inserts a new todo and returns the stored row, including its assigned id.
func (r *Todos) Create(ctx context.Context, in models.TodoCreate) (*models.Todo, error) {
	var due any
	if in.DueDate != nil {
		due = *in.DueDate
	}
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`INSERT INTO todoitem (title, description, completed, priority, due_date)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+todoColumns),
		in.Title, in.Description, false, in.Priority, due)
	t, err := scanTodo(row)
	if err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return nil, &apperr.StoreError{Op: "create", Err: err}
	}
	return t, nil
}

// Update writes only the supplied patch fields in a single statement and returns
// the resulting row. An empty patch returns the current row unchanged.
func (r *Todos) Update(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error) {
	var (
		sets []string
		args []any
	)
	if patch.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, patch.Title.Value)
	}
	if patch.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, patch.Description.Ptr())
	}
	if patch.Completed.Set {
		sets = append(sets, "completed = ?")
		args = append(args, patch.Completed.Value)
	}
	if patch.Priority.Set {
		sets = append(sets, "priority = ?")
		args = append(args, patch.Priority.Ptr())
	}
	if patch.DueDate.Set {
		sets = append(sets, "due_date = ?")
		if patch.DueDate.Null {
			args = append(args, nil)
		} else {
			args = append(args, patch.DueDate.Value)
		}
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`UPDATE todoitem SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+todoColumns),
		args...)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return nil, &apperr.StoreError{Op: "update", Err: err}
	}
	return t, nil
}

// Delete removes a todo by id.
func (r *Todos) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todoitem WHERE id = ?`), id)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return &apperr.StoreError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &apperr.StoreError{Op: "delete", Err: err}
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Ping checks the store is reachable.
func (r *Todos) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
