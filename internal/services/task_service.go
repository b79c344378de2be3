package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Lina3386/weekgram/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskStore interface {
	TaskReader
	SaveTasks(ctx context.Context, tasks []models.Task) error
}

type NewTask struct {
	Title            string
	Description      string
	EstimatedMinutes int
	RemindDays       []models.Weekday
}

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Add(ctx context.Context, in NewTask) (*models.Task, error) {
	days, err := models.NormalizeWeekdays(in.RemindDays)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		EstimatedMinutes: in.EstimatedMinutes,
		RemindDays:       days,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}
	task.ID = id.String()

	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.SaveTasks(ctx, append(tasks, task)); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.tasks.GetTasks(ctx)
}

// ListForDay returns the tasks reminded on day.
func (s *TaskService) ListForDay(ctx context.Context, day models.Weekday) ([]models.Task, error) {
	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Task
	for _, t := range tasks {
		if models.ContainsWeekday(t.RemindDays, day) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return s.tasks.SaveTasks(ctx, kept)
}
