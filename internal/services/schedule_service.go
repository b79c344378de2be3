package services

import (
	"context"

	"github.com/Lina3386/weekgram/internal/models"
)

type ScheduleStore interface {
	ScheduleReader
	SaveSchedule(ctx context.Context, schedule models.Schedule) error
	DeleteSchedule(ctx context.Context) error
}

type ScheduleService struct {
	schedules ScheduleStore
	users     UserReader
}

func NewScheduleService(schedules ScheduleStore, users UserReader) *ScheduleService {
	return &ScheduleService{schedules: schedules, users: users}
}

// Set stores the weekly notification window. An empty TelegramID falls back to the user's.
func (s *ScheduleService) Set(ctx context.Context, schedule models.Schedule) (*models.Schedule, error) {
	if schedule.TelegramID == "" {
		user, err := s.users.GetUser(ctx)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNoUser
		}
		schedule.TelegramID = user.TelegramID
	}

	days, err := models.NormalizeWeekdays(schedule.SelectedDays)
	if err != nil {
		return nil, err
	}
	schedule.SelectedDays = days

	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if err := s.schedules.SaveSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Get returns nil when no schedule is set.
func (s *ScheduleService) Get(ctx context.Context) (*models.Schedule, error) {
	return s.schedules.GetSchedule(ctx)
}

func (s *ScheduleService) Clear(ctx context.Context) error {
	return s.schedules.DeleteSchedule(ctx)
}
