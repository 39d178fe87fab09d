package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/models"
	"neurohub/backend/internal/realtime"
)

var (
	ErrEmptyPost    = errors.New("post content or media is required")
	ErrEmptyComment = errors.New("comment content is required")
	ErrPostNotFound = errors.New("post not found")
)

const (
	topicFeed     = "feed"
	topicPresence = "presence"
)

func topicNotifications(uid string) string { return "notifications/" + uid }

// commentExcerptLen bounds the comment text copied into a notification.
const commentExcerptLen = 50

// Uploader is the object-storage boundary used for post media. The upload
// must complete (or fail) before the post record is written, so a post can
// never reference media that was not stored.
type Uploader interface {
	Upload(name string, content io.Reader) (string, error)
	PublicURL(fileID string) string
}

// Media is an attachment for a new post.
type Media struct {
	Name    string
	Kind    string // "image" or "video"
	Content io.Reader
}

// Service keeps the bounded local view of the community feed, the presence
// set and per-user notifications consistent with the realtime tree, and
// applies user-initiated mutations. Every mutation re-queries the full
// snapshot and publishes it through the hub: subscribers always receive a
// total replacement, never a diff.
type Service struct {
	tree     Tree
	hub      *realtime.Hub
	uploader Uploader
	limit    int
	now      func() time.Time
}

func NewService(tree Tree, hub *realtime.Hub, uploader Uploader, limit int) *Service {
	if limit <= 0 {
		limit = 50
	}
	return &Service{
		tree:     tree,
		hub:      hub,
		uploader: uploader,
		limit:    limit,
		now:      time.Now,
	}
}

// snapshotPosts loads the N most recent posts newest-first. Older posts are
// unreachable past the cap.
func (s *Service) snapshotPosts(ctx context.Context) ([]models.Post, error) {
	nodes, err := s.tree.OrderedLimit(ctx, "posts", "timestamp", s.limit)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(nodes))
	for _, n := range nodes {
		var p models.Post
		if err := json.Unmarshal(n.Data, &p); err != nil {
			log.Printf("[Feed] Skipping malformed post %s: %v", n.Key, err)
			continue
		}
		p.ID = n.Key
		if p.Likes == nil {
			p.Likes = []string{}
		}
		if p.Comments == nil {
			p.Comments = map[string]models.Comment{}
		}
		for id, c := range p.Comments {
			c.ID = id
			if c.Likes == nil {
				c.Likes = []string{}
			}
			p.Comments[id] = c
		}
		posts = append(posts, p)
	}

	// Query order is oldest-first; the feed shows newest first.
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
	return posts, nil
}

// Posts returns the current feed snapshot for one-shot readers.
func (s *Service) Posts(ctx context.Context) ([]models.Post, error) {
	return s.snapshotPosts(ctx)
}

func (s *Service) publishFeed(ctx context.Context) {
	posts, err := s.snapshotPosts(ctx)
	if err != nil {
		// Subscribers keep their last snapshot: stale but available.
		log.Printf("[Feed] Snapshot refresh failed: %v", err)
		return
	}
	s.hub.Publish(topicFeed, posts)
}

// GetPost fetches a single post by id.
func (s *Service) GetPost(ctx context.Context, postID string) (models.Post, error) {
	var p models.Post
	if err := s.tree.Get(ctx, "posts/"+postID, &p); err != nil {
		return models.Post{}, err
	}
	if p.AuthorID == "" && p.Timestamp == 0 {
		return models.Post{}, ErrPostNotFound
	}
	p.ID = postID
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = map[string]models.Comment{}
	}
	return p, nil
}

// CreatePost validates, uploads media when present, then appends a fully
// formed post record with a single keyed write. There is no client-side
// echo: the new post reaches subscribers through the next feed snapshot.
func (s *Service) CreatePost(ctx context.Context, actor identity.Identity, content string, media *Media) (models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && media == nil {
		return models.Post{}, ErrEmptyPost
	}

	post := models.Post{
		Author:    actor.DisplayName,
		AuthorID:  actor.UID,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
		Likes:     []string{},
		Comments:  map[string]models.Comment{},
		Shares:    0,
	}

	if media != nil {
		fileID, err := s.uploader.Upload(fmt.Sprintf("posts/%s/%d_%s", actor.UID, post.Timestamp, media.Name), media.Content)
		if err != nil {
			return models.Post{}, fmt.Errorf("failed to upload media: %w", err)
		}
		post.MediaURL = s.uploader.PublicURL(fileID)
		post.MediaType = media.Kind
	}

	key, err := s.tree.Push(ctx, "posts", post)
	if err != nil {
		return models.Post{}, err
	}
	post.ID = key

	s.publishFeed(ctx)
	return post, nil
}

// ToggleLike atomically adds or removes the actor from a post's like set.
// The transaction keeps the set semantics under concurrent togglers: a uid
// appears at most once and concurrent likers never erase each other.
// Returns whether the post is liked by the actor after the call.
func (s *Service) ToggleLike(ctx context.Context, postID string, actor identity.Identity) (bool, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}

	var liked bool
	err = s.tree.Transact(ctx, "posts/"+postID+"/likes", func(unmarshal func(interface{}) error) (interface{}, error) {
		var likes []string
		if err := unmarshal(&likes); err != nil {
			return nil, err
		}
		next := make([]string, 0, len(likes)+1)
		liked = true
		for _, uid := range likes {
			if uid == actor.UID {
				liked = false
				continue
			}
			next = append(next, uid)
		}
		if liked {
			next = append(next, actor.UID)
		}
		return next, nil
	})
	if err != nil {
		return false, err
	}

	if liked && post.AuthorID != actor.UID {
		s.notify(ctx, post.AuthorID, models.Notification{
			Type:         models.NotifyLike,
			PostID:       postID,
			FromUserID:   actor.UID,
			FromUserName: actor.DisplayName,
			Timestamp:    s.now().UnixMilli(),
		})
	}

	s.publishFeed(ctx)
	return liked, nil
}

// AddComment appends a keyed child under the post's comment collection.
// The push key is fresh, so concurrent commenters cannot collide.
func (s *Service) AddComment(ctx context.Context, postID string, actor identity.Identity, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		Author:    actor.DisplayName,
		AuthorID:  actor.UID,
		Content:   text,
		Timestamp: s.now().UnixMilli(),
		Likes:     []string{},
	}
	key, err := s.tree.Push(ctx, "posts/"+postID+"/comments", comment)
	if err != nil {
		return models.Comment{}, err
	}
	comment.ID = key

	if post.AuthorID != actor.UID {
		s.notify(ctx, post.AuthorID, models.Notification{
			Type:         models.NotifyComment,
			PostID:       postID,
			FromUserID:   actor.UID,
			FromUserName: actor.DisplayName,
			Timestamp:    comment.Timestamp,
			Comment:      excerpt(text, commentExcerptLen),
		})
	}

	s.publishFeed(ctx)
	return comment, nil
}

// SharePost atomically increments the share counter. The counter never
// decreases, so concurrent sharers each count.
func (s *Service) SharePost(ctx context.Context, postID string, actor identity.Identity) (int, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	var shares int
	err = s.tree.Transact(ctx, "posts/"+postID+"/shares", func(unmarshal func(interface{}) error) (interface{}, error) {
		var current int
		if err := unmarshal(&current); err != nil {
			return nil, err
		}
		shares = current + 1
		return shares, nil
	})
	if err != nil {
		return 0, err
	}

	if post.AuthorID != actor.UID {
		s.notify(ctx, post.AuthorID, models.Notification{
			Type:         models.NotifyShare,
			PostID:       postID,
			FromUserID:   actor.UID,
			FromUserName: actor.DisplayName,
			Timestamp:    s.now().UnixMilli(),
		})
	}

	s.publishFeed(ctx)
	return shares, nil
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// sortNotificationsDesc orders newest first.
func sortNotificationsDesc(list []models.Notification) {
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp > list[j].Timestamp })
}
