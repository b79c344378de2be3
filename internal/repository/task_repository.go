package repository

import (
	"context"

	"github.com/Lina3386/weekgram/internal/models"
)

type TaskRepository struct {
	kv *KVRepository
}

func NewTaskRepository(kv *KVRepository) *TaskRepository {
	return &TaskRepository{kv: kv}
}

func (r *TaskRepository) GetTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	ok, err := r.kv.Load(ctx, TasksKey, &tasks)
	if err != nil {
		return nil, err
	}
	if !ok || tasks == nil {
		return []models.Task{}, nil
	}
	return tasks, nil
}

// SaveTasks replaces the whole collection.
func (r *TaskRepository) SaveTasks(ctx context.Context, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return r.kv.Store(ctx, TasksKey, tasks)
}

func (r *TaskRepository) DeleteTasks(ctx context.Context) error {
	return r.kv.Delete(ctx, TasksKey)
}
