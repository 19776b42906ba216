package service

import "github.com/rferreira/loan-ledger/internal/models"

// TaskDTO carries the data for a new follow-up task
type TaskDTO struct {
	Description string `json:"description" validate:"required"`
	FiscalID    string `json:"fiscal_id" validate:"required"`
}

// AddTask attaches a follow-up task to an existing live account.
func (s *Service) AddTask(dto TaskDTO) (*models.Task, error) {
	if err := s.validate.Struct(dto); err != nil {
		return nil, err
	}

	// The task must belong to a live account.
	account, err := s.store.FindAccount(dto.FiscalID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Description: dto.Description,
		FiscalID:    account.FiscalID,
	}
	if err := s.store.CreateTask(task); err != nil {
		return nil, err
	}

	s.log.Infof("Task %d created for %s", task.ID, task.FiscalID)
	return task, nil
}

// Tasks returns all follow-up tasks
func (s *Service) Tasks() ([]models.Task, error) {
	return s.store.ListTasks()
}

// TasksForAccount returns the tasks attached to one account
func (s *Service) TasksForAccount(key string) ([]models.Task, error) {
	account, err := s.store.FindAccount(key)
	if err != nil {
		return nil, err
	}
	return s.store.ListTasksByFiscalID(account.FiscalID)
}

// CompleteTask marks a task done, stamping the completion time
func (s *Service) CompleteTask(id int64) (*models.Task, error) {
	return s.store.SetTaskCompleted(id, true)
}

// ReopenTask clears a task's completion flag and timestamp
func (s *Service) ReopenTask(id int64) (*models.Task, error) {
	return s.store.SetTaskCompleted(id, false)
}

// RemoveTask deletes a task
func (s *Service) RemoveTask(id int64) error {
	return s.store.DeleteTask(id)
}
