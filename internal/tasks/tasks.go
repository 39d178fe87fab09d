// Package tasks manages the per-user daily task list. The whole list is
// one array field on the user record; every edit round-trips the full
// list through the records store.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"neurohub/backend/internal/models"
	"neurohub/backend/internal/records"
)

var ErrTaskNotFound = errors.New("task not found")

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid task %s: %s", e.Field, e.Reason)
}

// Store is the slice of the records store the task list needs.
type Store interface {
	GetUser(ctx context.Context, uid string) (records.UserRecord, error)
	SetTasks(ctx context.Context, uid string, tasks []models.Task) error
	SetCompletedTasks(ctx context.Context, uid string, ids []string) error
}

type Service struct {
	store Store
	newID func() string
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, newID: uuid.NewString, now: time.Now}
}

// DurationMinutes parses the free-form duration labels tasks carry
// ("30 min", "2 h", "1 hour") into minutes. Unrecognized labels report 0.
func DurationMinutes(s string) int {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0
	}
	unit := "min"
	if len(fields) > 1 {
		unit = fields[1]
	}
	switch {
	case strings.HasPrefix(unit, "h"):
		return n * 60
	case strings.HasPrefix(unit, "m"):
		return n
	}
	return 0
}

// validate checks the caller-supplied fields. A reminder, when present,
// must still be ahead of the current time of day: a timer for a moment
// that already passed would never fire today and is rejected instead of
// silently dropped.
func (s *Service) validate(t models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(t.Duration) == "" {
		return &ValidationError{Field: "duration", Reason: "required"}
	}
	if strings.TrimSpace(t.Type) == "" {
		return &ValidationError{Field: "type", Reason: "required"}
	}
	switch t.Priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return &ValidationError{Field: "priority", Reason: "must be Low, Medium or High"}
	}
	if t.ReminderTime != "" {
		at, err := time.Parse("15:04", t.ReminderTime)
		if err != nil {
			return &ValidationError{Field: "reminderTime", Reason: "must be HH:MM"}
		}
		now := s.now()
		due := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
		if !due.After(now) {
			return &ValidationError{Field: "reminderTime", Reason: "already passed today"}
		}
	}
	return nil
}

// List returns the user's tasks and the completed-task id set.
func (s *Service) List(ctx context.Context, uid string) ([]models.Task, []string, error) {
	rec, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	return rec.DailyTasks, rec.CompletedTasks, nil
}

// Create validates and appends a new task, returning it with its id.
func (s *Service) Create(ctx context.Context, uid string, t models.Task) (models.Task, error) {
	if err := s.validate(t); err != nil {
		return models.Task{}, err
	}

	rec, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return models.Task{}, err
	}

	t.ID = s.newID()
	t.Scheduled = false
	list := append(rec.DailyTasks, t)
	if err := s.store.SetTasks(ctx, uid, list); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Update replaces an existing task in place. A changed reminder time is
// revalidated and rearmed.
func (s *Service) Update(ctx context.Context, uid string, t models.Task) (models.Task, error) {
	if err := s.validate(t); err != nil {
		return models.Task{}, err
	}

	rec, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return models.Task{}, err
	}

	updated := false
	for i, existing := range rec.DailyTasks {
		if existing.ID != t.ID {
			continue
		}
		if existing.ReminderTime == t.ReminderTime {
			t.Scheduled = existing.Scheduled
		} else {
			t.Scheduled = false
		}
		rec.DailyTasks[i] = t
		updated = true
		break
	}
	if !updated {
		return models.Task{}, ErrTaskNotFound
	}

	if err := s.store.SetTasks(ctx, uid, rec.DailyTasks); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes a task and its completion mark.
func (s *Service) Delete(ctx context.Context, uid, taskID string) error {
	rec, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return err
	}

	list := rec.DailyTasks[:0]
	found := false
	for _, t := range rec.DailyTasks {
		if t.ID == taskID {
			found = true
			continue
		}
		list = append(list, t)
	}
	if !found {
		return ErrTaskNotFound
	}
	if err := s.store.SetTasks(ctx, uid, list); err != nil {
		return err
	}

	completed := make([]string, 0, len(rec.CompletedTasks))
	for _, id := range rec.CompletedTasks {
		if id != taskID {
			completed = append(completed, id)
		}
	}
	if len(completed) != len(rec.CompletedTasks) {
		return s.store.SetCompletedTasks(ctx, uid, completed)
	}
	return nil
}

// ToggleComplete flips a task's membership in the completed set.
// Reports whether the task is completed after the call.
func (s *Service) ToggleComplete(ctx context.Context, uid, taskID string) (bool, error) {
	rec, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return false, err
	}

	exists := false
	for _, t := range rec.DailyTasks {
		if t.ID == taskID {
			exists = true
			break
		}
	}
	if !exists {
		return false, ErrTaskNotFound
	}

	completed := make([]string, 0, len(rec.CompletedTasks)+1)
	nowDone := true
	for _, id := range rec.CompletedTasks {
		if id == taskID {
			nowDone = false
			continue
		}
		completed = append(completed, id)
	}
	if nowDone {
		completed = append(completed, taskID)
	}
	if err := s.store.SetCompletedTasks(ctx, uid, completed); err != nil {
		return false, err
	}
	return nowDone, nil
}
