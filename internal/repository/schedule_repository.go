package repository

import (
	"context"

	"github.com/Lina3386/weekgram/internal/models"
)

type ScheduleRepository struct {
	kv *KVRepository
}

func NewScheduleRepository(kv *KVRepository) *ScheduleRepository {
	return &ScheduleRepository{kv: kv}
}

func (r *ScheduleRepository) GetSchedule(ctx context.Context) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	ok, err := r.kv.Load(ctx, ScheduleKey, schedule)
	if err != nil || !ok {
		return nil, err
	}
	return schedule, nil
}

func (r *ScheduleRepository) SaveSchedule(ctx context.Context, schedule models.Schedule) error {
	return r.kv.Store(ctx, ScheduleKey, schedule)
}

func (r *ScheduleRepository) DeleteSchedule(ctx context.Context) error {
	return r.kv.Delete(ctx, ScheduleKey)
}
