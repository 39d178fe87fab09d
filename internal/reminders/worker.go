// Package reminders runs the background sweep that turns task reminder
// times into outbound mail.
package reminders

import (
	"context"
	"fmt"
	"log"
	"time"

	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/records"
	"neurohub/backend/internal/tasks"
)

const defaultInterval = 30 * time.Second

// Mailer delivers a single reminder message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Store is the slice of the user store the worker needs.
type Store interface {
	UsersWithPendingReminders(ctx context.Context) ([]records.UserRecord, error)
	MarkTaskScheduled(ctx context.Context, uid, taskID string) error
}

// Directory resolves an address when the stored record carries none,
// which happens for accounts created before mail collection.
type Directory interface {
	Lookup(ctx context.Context, uid string) (identity.Identity, error)
}

// Worker periodically scans for tasks whose reminder time has passed
// today and have not been dispatched yet. A task is dispatched at most
// once; editing its reminder time re-arms it.
type Worker struct {
	store    Store
	mailer   Mailer
	dir      Directory
	interval time.Duration
	now      func() time.Time
}

func NewWorker(store Store, mailer Mailer, dir Directory) *Worker {
	return &Worker{
		store:    store,
		mailer:   mailer,
		dir:      dir,
		interval: defaultInterval,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Println("[Reminders] Worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("[Reminders] Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	users, err := w.store.UsersWithPendingReminders(ctx)
	if err != nil {
		log.Printf("[Reminders] Scan failed: %v", err)
		return
	}

	for _, user := range users {
		completed := make(map[string]bool, len(user.CompletedTasks))
		for _, id := range user.CompletedTasks {
			completed[id] = true
		}

		email := user.Email
		for _, task := range user.DailyTasks {
			if task.ReminderTime == "" || task.Scheduled || completed[task.ID] {
				continue
			}
			if !w.due(task.ReminderTime) {
				continue
			}

			if email == "" && w.dir != nil {
				id, err := w.dir.Lookup(ctx, user.UID)
				if err != nil {
					log.Printf("[Reminders] No address for %s: %v", user.UID, err)
					break
				}
				email = id.Email
			}
			if email == "" {
				break
			}

			subject := "Task reminder: " + task.Title
			body := fmt.Sprintf("It is %s. Time to start %q.", task.ReminderTime, task.Title)
			if minutes := tasks.DurationMinutes(task.Duration); minutes > 0 {
				body = fmt.Sprintf("%s Planned for %d minutes.", body, minutes)
			}
			if err := w.mailer.Send(ctx, email, subject, body); err != nil {
				// Leave the task unscheduled so the next sweep retries.
				log.Printf("[Reminders] Dispatch to %s failed: %v", user.UID, err)
				continue
			}
			if err := w.store.MarkTaskScheduled(ctx, user.UID, task.ID); err != nil {
				log.Printf("[Reminders] Could not mark task %s for %s: %v", task.ID, user.UID, err)
				continue
			}
			log.Printf("[Reminders] Dispatched task %s for %s", task.ID, user.UID)
		}
	}
}

// due reports whether the "15:04" time of day has been reached today.
func (w *Worker) due(reminder string) bool {
	at, err := time.Parse("15:04", reminder)
	if err != nil {
		return false
	}
	now := w.now()
	target := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	return !now.Before(target)
}
