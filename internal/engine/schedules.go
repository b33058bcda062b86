package engine

import (
	"context"
	"log/slog"
	"time"

	"door-command-control/internal/storage"
)

// Schedules applies the weekly access window rules on top of the store:
// validation, the non-overlap invariant and audit log emission.
type Schedules struct {
	store  storage.Provider
	logger *slog.Logger
}

func NewSchedules(store storage.Provider) *Schedules {
	return &Schedules{
		store:  store,
		logger: slog.With("component", "schedules"),
	}
}

// ScheduleUpdate carries the fields of a partial schedule update. Nil fields
// keep their stored value.
type ScheduleUpdate struct {
	DayOfWeek *int
	OpenTime  *string
	CloseTime *string
}

func validateScheduleTimes(dayOfWeek int, openTime, closeTime string) (openMin, closeMin int, err error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return 0, 0, &ValidationError{Field: "day_of_week", Reason: "must be between 0 and 6"}
	}
	openMin, err = parseTimeOfDay(openTime)
	if err != nil {
		return 0, 0, &ValidationError{Field: "open_time", Reason: err.Error()}
	}
	closeMin, err = parseTimeOfDay(closeTime)
	if err != nil {
		return 0, 0, &ValidationError{Field: "close_time", Reason: err.Error()}
	}
	if openMin >= closeMin {
		return 0, 0, &ValidationError{Field: "close_time", Reason: "must be after open_time"}
	}
	return openMin, closeMin, nil
}

// checkOverlap enforces the non-overlap invariant for (device, day). The row
// being updated is excluded from the comparison via excludeID.
func (s *Schedules) checkOverlap(ctx context.Context, deviceID string, dayOfWeek, openMin, closeMin int, excludeID int64) error {
	existing, err := s.store.ListSchedulesForDay(ctx, deviceID, dayOfWeek)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		otherOpen, err := parseTimeOfDay(other.OpenTime)
		if err != nil {
			s.logger.Warn("Stored schedule has unparseable open_time", "schedule_id", other.ID, "open_time", other.OpenTime)
			continue
		}
		otherClose, err := parseTimeOfDay(other.CloseTime)
		if err != nil {
			s.logger.Warn("Stored schedule has unparseable close_time", "schedule_id", other.ID, "close_time", other.CloseTime)
			continue
		}
		if intervalsOverlap(openMin, closeMin, otherOpen, otherClose) {
			return &ConflictError{OpenTime: other.OpenTime, CloseTime: other.CloseTime}
		}
	}
	return nil
}

func (s *Schedules) Create(ctx context.Context, deviceID string, dayOfWeek int, openTime, closeTime string) (*storage.Schedule, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Reason: "must not be empty"}
	}

	openMin, closeMin, err := validateScheduleTimes(dayOfWeek, openTime, closeTime)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, deviceID, dayOfWeek, openMin, closeMin, 0); err != nil {
		return nil, err
	}

	schedule := storage.Schedule{
		DeviceID:  deviceID,
		DayOfWeek: dayOfWeek,
		OpenTime:  openTime,
		CloseTime: closeTime,
	}
	id, err := s.store.CreateSchedule(ctx, schedule)
	if err != nil {
		return nil, err
	}
	schedule.ID = id

	if err := s.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: deviceID,
		Action:   storage.LogActionSchedule,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Schedule created", "schedule_id", id, "device_id", deviceID, "day_of_week", dayOfWeek)
	return &schedule, nil
}

func (s *Schedules) Update(ctx context.Context, id int64, update ScheduleUpdate) (*storage.Schedule, error) {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &NotFoundError{Kind: "schedule", ID: id}
	}

	if update.DayOfWeek != nil {
		schedule.DayOfWeek = *update.DayOfWeek
	}
	if update.OpenTime != nil {
		schedule.OpenTime = *update.OpenTime
	}
	if update.CloseTime != nil {
		schedule.CloseTime = *update.CloseTime
	}

	openMin, closeMin, err := validateScheduleTimes(schedule.DayOfWeek, schedule.OpenTime, schedule.CloseTime)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, schedule.DeviceID, schedule.DayOfWeek, openMin, closeMin, id); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSchedule(ctx, *schedule); err != nil {
		return nil, err
	}

	if err := s.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: schedule.DeviceID,
		Action:   storage.LogActionSchedule,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Schedule updated", "schedule_id", id)
	return schedule, nil
}

func (s *Schedules) Delete(ctx context.Context, id int64) error {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return err
	}
	if schedule == nil {
		return &NotFoundError{Kind: "schedule", ID: id}
	}

	if _, err := s.store.DeleteSchedule(ctx, id); err != nil {
		return err
	}

	if err := s.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: schedule.DeviceID,
		Action:   storage.LogActionSchedule,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return err
	}

	s.logger.Info("Schedule deleted", "schedule_id", id, "device_id", schedule.DeviceID)
	return nil
}

func (s *Schedules) Get(ctx context.Context, id int64) (*storage.Schedule, error) {
	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &NotFoundError{Kind: "schedule", ID: id}
	}
	return schedule, nil
}

// List returns all schedules, or a single device's when deviceID is set.
func (s *Schedules) List(ctx context.Context, deviceID string) ([]storage.Schedule, error) {
	return s.store.ListSchedules(ctx, deviceID)
}

// transitionsAt returns the commands implied by schedules firing at the given
// wall-clock instant: unlock at open_time, lock at close_time, matched by
// exact minute equality. A missed minute is skipped, not backfilled.
func (s *Schedules) transitionsAt(ctx context.Context, now time.Time) ([]storage.Command, error) {
	schedules, err := s.store.ListSchedulesForDay(ctx, "", int(now.Weekday()))
	if err != nil {
		return nil, err
	}

	nowMin := minuteOfDay(now)
	var commands []storage.Command
	for _, schedule := range schedules {
		openMin, err := parseTimeOfDay(schedule.OpenTime)
		if err != nil {
			s.logger.Warn("Skipping schedule with bad open_time", "schedule_id", schedule.ID, "error", err)
			continue
		}
		closeMin, err := parseTimeOfDay(schedule.CloseTime)
		if err != nil {
			s.logger.Warn("Skipping schedule with bad close_time", "schedule_id", schedule.ID, "error", err)
			continue
		}

		switch nowMin {
		case openMin:
			commands = append(commands, storage.Command{DeviceID: schedule.DeviceID, Command: storage.ActionUnlock})
		case closeMin:
			commands = append(commands, storage.Command{DeviceID: schedule.DeviceID, Command: storage.ActionLock})
		}
	}
	return commands, nil
}
