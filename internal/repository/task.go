package repository

import (
	"database/sql"
	"fmt"

	"github.com/rferreira/loan-ledger/internal/models"
)

// CreateTask inserts a follow-up task for an account
func (r *Repository) CreateTask(task *models.Task) error {
	query := `
		INSERT INTO ledger.tasks (description, completed, fiscal_id, created_at)
		VALUES ($1, FALSE, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, task.Description, task.FiscalID).
		Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListTasks returns all tasks, oldest first
func (r *Repository) ListTasks() ([]models.Task, error) {
	return r.queryTasks(`
		SELECT id, description, completed, fiscal_id, created_at, completed_at
		FROM ledger.tasks
		ORDER BY created_at`)
}

// ListTasksByFiscalID returns the tasks attached to one account
func (r *Repository) ListTasksByFiscalID(fiscalID string) ([]models.Task, error) {
	return r.queryTasks(`
		SELECT id, description, completed, fiscal_id, created_at, completed_at
		FROM ledger.tasks
		WHERE fiscal_id = $1
		ORDER BY created_at`, fiscalID)
}

func (r *Repository) queryTasks(query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Description, &task.Completed,
			&task.FiscalID, &task.CreatedAt, &task.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}

// SetTaskCompleted flips a task's completion flag, stamping or clearing the
// completion time accordingly, and returns the updated task.
func (r *Repository) SetTaskCompleted(id int64, completed bool) (*models.Task, error) {
	task := &models.Task{}
	query := `
		UPDATE ledger.tasks
		SET completed = $2,
		    completed_at = CASE WHEN $2 THEN CURRENT_TIMESTAMP ELSE NULL END
		WHERE id = $1
		RETURNING id, description, completed, fiscal_id, created_at, completed_at`
	err := r.db.QueryRow(query, id, completed).
		Scan(&task.ID, &task.Description, &task.Completed,
			&task.FiscalID, &task.CreatedAt, &task.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task
func (r *Repository) DeleteTask(id int64) error {
	result, err := r.db.Exec(`DELETE FROM ledger.tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}
