package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/models"
	"neurohub/backend/internal/records"
)

type fakeStore struct {
	users  []records.UserRecord
	marked []string // "uid/taskID"
}

func (f *fakeStore) UsersWithPendingReminders(ctx context.Context) ([]records.UserRecord, error) {
	return f.users, nil
}

func (f *fakeStore) MarkTaskScheduled(ctx context.Context, uid, taskID string) error {
	f.marked = append(f.marked, uid+"/"+taskID)
	return nil
}

type fakeMailer struct {
	sent   []string // recipient addresses
	bodies []string
	fail   bool
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.fail {
		return errors.New("endpoint down")
	}
	f.sent = append(f.sent, to)
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeDirectory struct {
	emails map[string]string
}

func (f *fakeDirectory) Lookup(ctx context.Context, uid string) (identity.Identity, error) {
	email, ok := f.emails[uid]
	if !ok {
		return identity.Identity{}, errors.New("no such user")
	}
	return identity.Identity{UID: uid, Email: email}, nil
}

func newTestWorker(users ...records.UserRecord) (*Worker, *fakeStore, *fakeMailer) {
	store := &fakeStore{users: users}
	mail := &fakeMailer{}
	w := NewWorker(store, mail, &fakeDirectory{})
	w.now = func() time.Time {
		return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	}
	return w, store, mail
}

func task(id, reminder string, scheduled bool) models.Task {
	return models.Task{
		ID:           id,
		Title:        "Task " + id,
		Duration:     "30 min",
		Type:         "Work",
		Priority:     models.PriorityMedium,
		ReminderTime: reminder,
		Scheduled:    scheduled,
	}
}

func TestSweepDispatchesDueTasks(t *testing.T) {
	w, store, mail := newTestWorker(records.UserRecord{
		UID:   "uid-alice",
		Email: "alice@example.com",
		DailyTasks: []models.Task{
			task("t1", "14:00", false), // due
			task("t2", "18:00", false), // not yet
		},
	})

	w.sweep(context.Background())

	assert.Equal(t, []string{"alice@example.com"}, mail.sent)
	assert.Equal(t, []string{"uid-alice/t1"}, store.marked)
	assert.Contains(t, mail.bodies[0], "Planned for 30 minutes")
}

func TestSweepLooksUpMissingAddress(t *testing.T) {
	w, store, mail := newTestWorker(records.UserRecord{
		UID:        "uid-bob",
		DailyTasks: []models.Task{task("t1", "14:00", false)},
	})
	w.dir = &fakeDirectory{emails: map[string]string{"uid-bob": "bob@example.com"}}

	w.sweep(context.Background())

	assert.Equal(t, []string{"bob@example.com"}, mail.sent)
	assert.Equal(t, []string{"uid-bob/t1"}, store.marked)
}

func TestSweepSkipsUserWithoutAddress(t *testing.T) {
	w, store, mail := newTestWorker(records.UserRecord{
		UID:        "uid-ghost",
		DailyTasks: []models.Task{task("t1", "14:00", false)},
	})

	w.sweep(context.Background())

	assert.Empty(t, mail.sent)
	assert.Empty(t, store.marked)
}

func TestSweepSkipsScheduledAndCompleted(t *testing.T) {
	w, store, mail := newTestWorker(records.UserRecord{
		UID:            "uid-alice",
		Email:          "alice@example.com",
		CompletedTasks: []string{"t2"},
		DailyTasks: []models.Task{
			task("t1", "14:00", true),  // already dispatched
			task("t2", "14:00", false), // finished, no point reminding
			task("t3", "", false),      // no reminder set
		},
	})

	w.sweep(context.Background())

	assert.Empty(t, mail.sent)
	assert.Empty(t, store.marked)
}

func TestSweepRetriesAfterMailerFailure(t *testing.T) {
	w, store, mail := newTestWorker(records.UserRecord{
		UID:        "uid-alice",
		Email:      "alice@example.com",
		DailyTasks: []models.Task{task("t1", "14:00", false)},
	})
	mail.fail = true

	w.sweep(context.Background())
	assert.Empty(t, store.marked, "failed dispatch must stay pending")

	mail.fail = false
	w.sweep(context.Background())
	assert.Equal(t, []string{"uid-alice/t1"}, store.marked)
}

func TestDueBoundary(t *testing.T) {
	w, _, _ := newTestWorker()

	assert.True(t, w.due("14:30"), "exact minute counts as due")
	assert.True(t, w.due("00:05"))
	assert.False(t, w.due("14:31"))
	assert.False(t, w.due("garbage"))
}

func TestRunStopsOnCancel(t *testing.T) {
	w, _, _ := newTestWorker()
	w.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	require.NotNil(t, ctx.Err())
}
