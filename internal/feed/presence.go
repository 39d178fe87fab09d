package feed

import (
	"context"
	"log"
	"sort"

	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/models"
)

// StartSession upserts the private profile at /users/{uid} and its public
// projection at /publicUsers/{uid}. The two writes are independent calls
// with no atomicity; the public copy is advisory presence data, never
// authoritative, which is why a failure between them is tolerable.
func (s *Service) StartSession(ctx context.Context, actor identity.Identity) (models.UserProfile, error) {
	var existing models.UserProfile
	if err := s.tree.Get(ctx, "users/"+actor.UID, &existing); err != nil {
		return models.UserProfile{}, err
	}

	now := s.now().UnixMilli()
	profile := models.UserProfile{
		Bio:         existing.Bio,
		Description: existing.Description,
		Connections: existing.Connections,
		DisplayName: actor.DisplayName,
		LastActive:  now,
		IsLoggedIn:  true,
		PhotoURL:    actor.PhotoURL,
		Status:      existing.Status,
	}
	if profile.Connections == nil {
		profile.Connections = []string{}
	}

	if err := s.tree.Set(ctx, "users/"+actor.UID, profile); err != nil {
		return models.UserProfile{}, err
	}
	if err := s.tree.Set(ctx, "publicUsers/"+actor.UID, publicProjection(actor.UID, profile)); err != nil {
		return models.UserProfile{}, err
	}

	s.publishPresence(ctx)
	return profile, nil
}

// UpdateProfile rewrites the caller-editable profile fields in the private
// record and mirrors the reduced subset into the public projection.
func (s *Service) UpdateProfile(ctx context.Context, uid string, bio, description, status string) error {
	now := s.now().UnixMilli()
	err := s.tree.Update(ctx, "users/"+uid, map[string]interface{}{
		"bio":         bio,
		"description": description,
		"status":      status,
		"lastActive":  now,
	})
	if err != nil {
		return err
	}
	err = s.tree.Update(ctx, "publicUsers/"+uid, map[string]interface{}{
		"bio":        bio,
		"lastActive": now,
	})
	if err != nil {
		return err
	}
	s.publishPresence(ctx)
	return nil
}

// EndSession flips the online flag off in both records. Best effort: a
// failed teardown leaves a stale online flag, corrected by the next
// session start.
func (s *Service) EndSession(ctx context.Context, uid string) {
	now := s.now().UnixMilli()
	fields := map[string]interface{}{"isLoggedIn": false, "lastActive": now}
	if err := s.tree.Update(ctx, "users/"+uid, fields); err != nil {
		log.Printf("[Feed] Session teardown for %s (private) failed: %v", uid, err)
	}
	if err := s.tree.Update(ctx, "publicUsers/"+uid, fields); err != nil {
		log.Printf("[Feed] Session teardown for %s (public) failed: %v", uid, err)
	}
	s.publishPresence(ctx)
}

// GetProfile returns the caller's private profile.
func (s *Service) GetProfile(ctx context.Context, uid string) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.tree.Get(ctx, "users/"+uid, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

// ListUsers returns every public profile except the caller's, most
// recently active first.
func (s *Service) ListUsers(ctx context.Context, excludeUID string) ([]models.PublicProfile, error) {
	var raw map[string]models.PublicProfile
	if err := s.tree.Get(ctx, "publicUsers", &raw); err != nil {
		return nil, err
	}
	users := make([]models.PublicProfile, 0, len(raw))
	for uid, u := range raw {
		if uid == excludeUID {
			continue
		}
		u.UID = uid
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].LastActive > users[j].LastActive })
	return users, nil
}

func (s *Service) publishPresence(ctx context.Context) {
	users, err := s.ListUsers(ctx, "")
	if err != nil {
		log.Printf("[Feed] Presence snapshot failed: %v", err)
		return
	}
	s.hub.Publish(topicPresence, users)
}

func publicProjection(uid string, p models.UserProfile) models.PublicProfile {
	return models.PublicProfile{
		UID:         uid,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Bio:         p.Bio,
		LastActive:  p.LastActive,
		IsLoggedIn:  p.IsLoggedIn,
	}
}
