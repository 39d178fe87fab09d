package feed

import (
	"context"
	"log"

	"neurohub/backend/internal/models"
)

// notify fans a notification out to its recipient. The actor never
// notifies themselves; callers enforce that before reaching here.
// Fanout failures are logged, not propagated: the triggering mutation
// already succeeded.
func (s *Service) notify(ctx context.Context, recipient string, n models.Notification) {
	if _, err := s.tree.Push(ctx, "notifications/"+recipient, n); err != nil {
		log.Printf("[Feed] Notification fanout to %s failed: %v", recipient, err)
		return
	}
	s.publishNotifications(ctx, recipient)
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, uid string) ([]models.Notification, error) {
	var raw map[string]models.Notification
	if err := s.tree.Get(ctx, "notifications/"+uid, &raw); err != nil {
		return nil, err
	}
	list := make([]models.Notification, 0, len(raw))
	for id, n := range raw {
		n.ID = id
		list = append(list, n)
	}
	sortNotificationsDesc(list)
	return list, nil
}

// MarkNotificationRead flips the read flag. The update is a single field
// write and is idempotent.
func (s *Service) MarkNotificationRead(ctx context.Context, uid, notificationID string) error {
	err := s.tree.Update(ctx, "notifications/"+uid+"/"+notificationID, map[string]interface{}{
		"read": true,
	})
	if err != nil {
		return err
	}
	s.publishNotifications(ctx, uid)
	return nil
}

func (s *Service) publishNotifications(ctx context.Context, uid string) {
	list, err := s.ListNotifications(ctx, uid)
	if err != nil {
		log.Printf("[Feed] Notification snapshot for %s failed: %v", uid, err)
		return
	}
	s.hub.Publish(topicNotifications(uid), list)
}
