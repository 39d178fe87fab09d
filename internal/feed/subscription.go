package feed

import (
	"context"
	"fmt"

	"neurohub/backend/internal/models"
	"neurohub/backend/internal/realtime"
)

// FeedSubscription delivers full feed snapshots, newest first, capped at
// the service limit. Every delivery replaces the previous one entirely.
type FeedSubscription struct {
	C      <-chan []models.Post
	stream *realtime.Stream
	cancel func()
}

func (s *FeedSubscription) State() realtime.StreamState { return s.stream.State() }

// Cancel is the only cancellation primitive for a subscription.
func (s *FeedSubscription) Cancel() { s.cancel() }

// SubscribeFeed opens a live stream of the feed. The initial snapshot is
// delivered first; on subscription failure the stream surfaces a
// recoverable error state and the caller keeps whatever it already had.
func (s *Service) SubscribeFeed(ctx context.Context) (*FeedSubscription, error) {
	stream := realtime.NewStream()
	stream.BeginSubscribe()

	initial, err := s.snapshotPosts(ctx)
	if err != nil {
		stream.Fail(err)
		return nil, fmt.Errorf("feed unavailable: %w", err)
	}

	in, cancel := s.hub.Subscribe(topicFeed)
	out := make(chan []models.Post, 1)
	out <- initial
	stream.Deliver()

	go func() {
		defer close(out)
		for snap := range in {
			posts, ok := snap.Data.([]models.Post)
			if !ok {
				continue
			}
			stream.Deliver()
			deliverPosts(out, posts)
		}
	}()

	return &FeedSubscription{C: out, stream: stream, cancel: cancel}, nil
}

// PresenceSubscription delivers full public-user snapshots.
type PresenceSubscription struct {
	C      <-chan []models.PublicProfile
	stream *realtime.Stream
	cancel func()
}

func (s *PresenceSubscription) State() realtime.StreamState { return s.stream.State() }
func (s *PresenceSubscription) Cancel()                     { s.cancel() }

func (s *Service) SubscribePresence(ctx context.Context, excludeUID string) (*PresenceSubscription, error) {
	stream := realtime.NewStream()
	stream.BeginSubscribe()

	initial, err := s.ListUsers(ctx, excludeUID)
	if err != nil {
		stream.Fail(err)
		return nil, fmt.Errorf("presence unavailable: %w", err)
	}

	in, cancel := s.hub.Subscribe(topicPresence)
	out := make(chan []models.PublicProfile, 1)
	out <- initial
	stream.Deliver()

	go func() {
		defer close(out)
		for snap := range in {
			users, ok := snap.Data.([]models.PublicProfile)
			if !ok {
				continue
			}
			stream.Deliver()
			filtered := make([]models.PublicProfile, 0, len(users))
			for _, u := range users {
				if u.UID != excludeUID {
					filtered = append(filtered, u)
				}
			}
			deliverUsers(out, filtered)
		}
	}()

	return &PresenceSubscription{C: out, stream: stream, cancel: cancel}, nil
}

// NotificationSubscription delivers the recipient's notification list.
type NotificationSubscription struct {
	C      <-chan []models.Notification
	stream *realtime.Stream
	cancel func()
}

func (s *NotificationSubscription) State() realtime.StreamState { return s.stream.State() }
func (s *NotificationSubscription) Cancel()                     { s.cancel() }

func (s *Service) SubscribeNotifications(ctx context.Context, uid string) (*NotificationSubscription, error) {
	stream := realtime.NewStream()
	stream.BeginSubscribe()

	initial, err := s.ListNotifications(ctx, uid)
	if err != nil {
		stream.Fail(err)
		return nil, fmt.Errorf("notifications unavailable: %w", err)
	}

	in, cancel := s.hub.Subscribe(topicNotifications(uid))
	out := make(chan []models.Notification, 1)
	out <- initial
	stream.Deliver()

	go func() {
		defer close(out)
		for snap := range in {
			list, ok := snap.Data.([]models.Notification)
			if !ok {
				continue
			}
			stream.Deliver()
			deliverNotifications(out, list)
		}
	}()

	return &NotificationSubscription{C: out, stream: stream, cancel: cancel}, nil
}

// The deliver helpers replace a pending undelivered snapshot with the new
// one: a slow consumer skips intermediate states, never sees diffs.

func deliverPosts(out chan []models.Post, v []models.Post) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}

func deliverUsers(out chan []models.PublicProfile, v []models.PublicProfile) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}

func deliverNotifications(out chan []models.Notification, v []models.Notification) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
