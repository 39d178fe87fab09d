package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurohub/backend/internal/models"
)

func TestStartSessionPreservesProfileFields(t *testing.T) {
	svc, tree, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, tree.Set(ctx, "users/"+alice.UID, models.UserProfile{
		Bio:         "night owl",
		Description: "long form",
		Connections: []string{bob.UID},
		Status:      "busy",
	}))

	profile, err := svc.StartSession(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, "night owl", profile.Bio)
	assert.Equal(t, "long form", profile.Description)
	assert.Equal(t, []string{bob.UID}, profile.Connections)
	assert.Equal(t, "busy", profile.Status)
	assert.Equal(t, alice.DisplayName, profile.DisplayName)
	assert.True(t, profile.IsLoggedIn)
	assert.NotZero(t, profile.LastActive)
}

func TestStartSessionWritesPublicProjection(t *testing.T) {
	svc, tree, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, alice)
	require.NoError(t, err)

	var pub models.PublicProfile
	require.NoError(t, tree.Get(ctx, "publicUsers/"+alice.UID, &pub))
	assert.Equal(t, alice.DisplayName, pub.DisplayName)
	assert.True(t, pub.IsLoggedIn)

	// The projection must not leak private fields.
	var raw map[string]interface{}
	require.NoError(t, tree.Get(ctx, "publicUsers/"+alice.UID, &raw))
	assert.NotContains(t, raw, "description")
	assert.NotContains(t, raw, "connections")
}

func TestUpdateProfileMirrorsBioToPublic(t *testing.T) {
	svc, tree, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, alice)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(ctx, alice.UID, "new bio", "new desc", "away"))

	private, err := svc.GetProfile(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, "new bio", private.Bio)
	assert.Equal(t, "new desc", private.Description)
	assert.Equal(t, "away", private.Status)

	var pub models.PublicProfile
	require.NoError(t, tree.Get(ctx, "publicUsers/"+alice.UID, &pub))
	assert.Equal(t, "new bio", pub.Bio)
}

func TestEndSessionFlipsOnlineFlag(t *testing.T) {
	svc, tree, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, alice)
	require.NoError(t, err)

	svc.EndSession(ctx, alice.UID)

	private, err := svc.GetProfile(ctx, alice.UID)
	require.NoError(t, err)
	assert.False(t, private.IsLoggedIn)

	var pub models.PublicProfile
	require.NoError(t, tree.Get(ctx, "publicUsers/"+alice.UID, &pub))
	assert.False(t, pub.IsLoggedIn)
}

func TestListUsersExcludesCallerMostRecentFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, alice)
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, bob)
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, carol)
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx, bob.UID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, carol.UID, users[0].UID)
	assert.Equal(t, alice.UID, users[1].UID)
}
