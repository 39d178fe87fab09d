package games

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dropOnBucket plants an object so the next small step lands it in the
// catch band over the bucket.
func dropOnBucket(s *Scoopd, letter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, fallingObject{
		ID:     s.nextID,
		X:      s.bucketX - scoopdObjectSize/2,
		Y:      scoopdHeight - scoopdBucketFloor - scoopdBucketHeight - scoopdObjectSize + 1,
		Letter: letter,
	})
	s.nextID++
}

func targetOf(s *Scoopd) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func TestScoopdCorrectCatchScoresAndSpeedsUp(t *testing.T) {
	s := NewScoopd(rand.New(rand.NewSource(1)), nil)

	dropOnBucket(s, targetOf(s))
	s.Advance(16 * time.Millisecond)

	data := s.State().Data.(ScoopdData)
	assert.Equal(t, 10, s.State().Score)
	assert.Equal(t, scoopdStartLives, data.Lives)
	assert.InDelta(t, scoopdStartSpeed+scoopdSpeedStep, data.Speed, 1e-9)
	assert.Empty(t, data.Objects)
}

func TestScoopdWrongCatchCostsALife(t *testing.T) {
	s := NewScoopd(rand.New(rand.NewSource(1)), nil)

	dropOnBucket(s, "?")
	s.Advance(16 * time.Millisecond)

	data := s.State().Data.(ScoopdData)
	assert.Equal(t, 0, s.State().Score)
	assert.Equal(t, scoopdStartLives-1, data.Lives)
	assert.InDelta(t, scoopdStartSpeed, data.Speed, 1e-9)
}

func TestScoopdThreeWrongCatchesEndTheGameOnce(t *testing.T) {
	var completions, finalScore int
	s := NewScoopd(rand.New(rand.NewSource(1)), func(score int) {
		completions++
		finalScore = score
	})

	dropOnBucket(s, targetOf(s))
	s.Advance(16 * time.Millisecond)

	for i := 0; i < scoopdStartLives; i++ {
		dropOnBucket(s, "?")
		s.Advance(16 * time.Millisecond)
	}

	assert.True(t, s.Complete())
	assert.Equal(t, 1, completions)
	assert.Equal(t, 10, finalScore)

	// Stepping a finished game changes nothing.
	s.Advance(time.Second)
	assert.Equal(t, 1, completions)
}

func TestScoopdSpawnsOnInterval(t *testing.T) {
	s := NewScoopd(rand.New(rand.NewSource(1)), nil)

	s.Advance(scoopdSpawnEvery - time.Millisecond)
	assert.Empty(t, s.State().Data.(ScoopdData).Objects)

	s.Advance(time.Millisecond)
	assert.Len(t, s.State().Data.(ScoopdData).Objects, 1)

	s.Advance(3 * scoopdSpawnEvery)
	assert.Len(t, s.State().Data.(ScoopdData).Objects, 4)
}

func TestScoopdBucketClamped(t *testing.T) {
	s := NewScoopd(rand.New(rand.NewSource(1)), nil)

	s.MoveBucket(-50)
	assert.Equal(t, scoopdBucketWidth/2, s.State().Data.(ScoopdData).BucketX)

	s.MoveBucket(scoopdWidth + 50)
	assert.Equal(t, scoopdWidth-scoopdBucketWidth/2, s.State().Data.(ScoopdData).BucketX)
}

func TestScoopdRunStopsOnCancel(t *testing.T) {
	s := NewScoopd(rand.New(rand.NewSource(1)), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run loop ignored cancellation")
	}
}

func TestScoopdRunReturnsOnGameOver(t *testing.T) {
	s := NewScoopd(rand.New(rand.NewSource(1)), nil)
	s.mu.Lock()
	s.lives = 1
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	dropOnBucket(s, "?")
	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, s.Complete())
	case <-time.After(4 * time.Second):
		t.Fatal("run loop never observed game over")
	}
}
