package feed

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/realtime"
)

var (
	alice = identity.Identity{UID: "uid-alice", DisplayName: "Alice"}
	bob   = identity.Identity{UID: "uid-bob", DisplayName: "Bob"}
	carol = identity.Identity{UID: "uid-carol", DisplayName: "Carol"}
)

type fakeUploader struct {
	mu    sync.Mutex
	names []string
}

func (f *fakeUploader) Upload(name string, content io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return "file-1", nil
}

func (f *fakeUploader) PublicURL(fileID string) string {
	return "https://files.example.com/" + fileID
}

func newTestService(t *testing.T) (*Service, *memTree, *realtime.Hub) {
	t.Helper()
	tree := newMemTree()
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)
	svc := NewService(tree, hub, &fakeUploader{}, 50)
	svc.now = fakeClock()
	return svc, tree, hub
}

// fakeClock hands out strictly increasing timestamps, safe for use from
// concurrent mutations.
func fakeClock() func() time.Time {
	var mu sync.Mutex
	var ticks int64
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		return time.UnixMilli(1700000000000 + ticks)
	}
}

func TestCreatePostRejectsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreatePost(context.Background(), alice, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestCreatePostAppearsNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, alice, "first", nil)
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, bob, "second", nil)
	require.NoError(t, err)

	posts, err := svc.snapshotPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	assert.NotNil(t, posts[0].Likes)
	assert.NotNil(t, posts[0].Comments)
}

func TestCreatePostUploadsMediaBeforeWrite(t *testing.T) {
	tree := newMemTree()
	hub := realtime.NewHub()
	defer hub.Close()
	up := &fakeUploader{}
	svc := NewService(tree, hub, up, 50)

	post, err := svc.CreatePost(context.Background(), alice, "look", &Media{
		Name:    "cat.png",
		Kind:    "image",
		Content: strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://files.example.com/file-1", post.MediaURL)
	assert.Equal(t, "image", post.MediaType)
	require.Len(t, up.names, 1)
	assert.Contains(t, up.names[0], "posts/uid-alice/")
	assert.Contains(t, up.names[0], "cat.png")
}

func TestSnapshotKeepsNewestUpToLimit(t *testing.T) {
	tree := newMemTree()
	hub := realtime.NewHub()
	defer hub.Close()
	svc := NewService(tree, hub, &fakeUploader{}, 3)
	svc.now = fakeClock()
	ctx := context.Background()

	var last string
	for i := 0; i < 5; i++ {
		p, err := svc.CreatePost(ctx, alice, strings.Repeat("x", i+1), nil)
		require.NoError(t, err)
		last = p.ID
	}

	posts, err := svc.snapshotPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, last, posts[0].ID)
}

func TestToggleLikeInvolution(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "hello", nil)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.UID}, got.Likes)

	liked, err = svc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestToggleLikeConcurrentLikersBothSurvive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "race me", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, actor := range []identity.Identity{bob, carol} {
		wg.Add(1)
		go func(a identity.Identity) {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, post.ID, a)
			assert.NoError(t, err)
		}(actor)
	}
	wg.Wait()

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bob.UID, carol.UID}, got.Likes)
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ToggleLike(context.Background(), "no-such-post", bob)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikeNotifiesAuthorButNeverSelf(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "hello", nil)
	require.NoError(t, err)

	// The author liking their own post produces no notification.
	_, err = svc.ToggleLike(ctx, post.ID, alice)
	require.NoError(t, err)
	list, err := svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	list, err = svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "like", list[0].Type)
	assert.Equal(t, bob.UID, list[0].FromUserID)
	assert.Equal(t, post.ID, list[0].PostID)
	assert.False(t, list[0].Read)

	// Unliking is silent.
	_, err = svc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	list, err = svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddCommentValidatesAndNotifiesWithExcerpt(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "hello", nil)
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, post.ID, bob, "  ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	long := strings.Repeat("много", 20) // 100 runes
	comment, err := svc.AddComment(ctx, post.ID, bob, long)
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, long, got.Comments[comment.ID].Content)

	list, err := svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "comment", list[0].Type)
	assert.Equal(t, 50, len([]rune(list[0].Comment)))
	assert.True(t, strings.HasPrefix(long, list[0].Comment))
}

func TestSharePostCountsEverySharer(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "share me", nil)
	require.NoError(t, err)

	n, err := svc.SharePost(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SharePost(ctx, post.ID, carol)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Shares)
}

func TestMarkNotificationReadIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "hello", nil)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)

	list, err := svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.MarkNotificationRead(ctx, alice.UID, list[0].ID))
	require.NoError(t, svc.MarkNotificationRead(ctx, alice.UID, list[0].ID))

	list, err = svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestNotificationsNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "hello", nil)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	_, err = svc.SharePost(ctx, post.ID, carol)
	require.NoError(t, err)

	list, err := svc.ListNotifications(ctx, alice.UID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "share", list[0].Type)
	assert.Equal(t, "like", list[1].Type)
}
