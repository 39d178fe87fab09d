package games

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const (
	scoopdWidth        = 1000.0
	scoopdHeight       = 700.0
	scoopdBucketWidth  = 100.0
	scoopdBucketHeight = 80.0
	scoopdObjectSize   = 35.0
	scoopdBucketFloor  = 50.0 // gap between bucket bottom and floor

	scoopdStartLives = 3
	scoopdStartSpeed = 2.0
	scoopdSpeedStep  = 0.1
	scoopdMaxSpeed   = 8.0
	scoopdCatchScore = 10

	scoopdSpawnEvery = 1500 * time.Millisecond

	// Speeds are tuned in pixels per frame at the original 60fps.
	scoopdFrameRate = 60.0
)

type fallingObject struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Letter string  `json:"letter"`
}

// Scoopd is the letter-catching game. Letters fall from the top; the
// player steers a bucket to catch the announced target letter. Catching
// the target scores and speeds the game up, catching anything else costs
// a life. At zero lives the game is over.
type Scoopd struct {
	mu         sync.Mutex
	rng        *rand.Rand
	bucketX    float64
	objects    []fallingObject
	target     string
	score      int
	lives      int
	speed      float64
	sinceSpawn time.Duration
	nextID     int
	done       bool
	complete   completion
}

// ScoopdData is the client snapshot of the play field.
type ScoopdData struct {
	BucketX float64         `json:"bucketX"`
	Objects []fallingObject `json:"objects"`
	Target  string          `json:"target"`
	Lives   int             `json:"lives"`
	Speed   float64         `json:"speed"`
}

func NewScoopd(rng *rand.Rand, onComplete CompleteFunc) *Scoopd {
	s := &Scoopd{
		rng:      rng,
		bucketX:  scoopdWidth / 2,
		lives:    scoopdStartLives,
		speed:    scoopdStartSpeed,
		complete: completion{fn: onComplete},
	}
	s.target = s.randomLetter()
	return s
}

func (s *Scoopd) randomLetter() string {
	return string(rune('A' + s.rng.Intn(26)))
}

func (s *Scoopd) ID() string { return "scoopd" }

func (s *Scoopd) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// MoveBucket steers the bucket, clamped to the play field.
func (s *Scoopd) MoveBucket(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	min := scoopdBucketWidth / 2
	max := scoopdWidth - scoopdBucketWidth/2
	if x < min {
		x = min
	}
	if x > max {
		x = max
	}
	s.bucketX = x
}

// Advance steps the simulation by dt: spawns due letters, moves the
// field, resolves catches and misses. Safe to call after game over.
func (s *Scoopd) Advance(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}

	s.sinceSpawn += dt
	for s.sinceSpawn >= scoopdSpawnEvery {
		s.sinceSpawn -= scoopdSpawnEvery
		s.objects = append(s.objects, fallingObject{
			ID:     s.nextID,
			X:      s.rng.Float64() * (scoopdWidth - scoopdObjectSize),
			Y:      -scoopdObjectSize,
			Letter: s.randomLetter(),
		})
		s.nextID++
	}

	fall := s.speed * scoopdFrameRate * dt.Seconds()
	bucketTop := scoopdHeight - scoopdBucketFloor - scoopdBucketHeight
	bucketBottom := scoopdHeight - scoopdBucketFloor

	kept := s.objects[:0]
	for _, obj := range s.objects {
		obj.Y += fall

		if obj.Y > scoopdHeight+scoopdObjectSize {
			continue
		}

		centerX := obj.X + scoopdObjectSize/2
		bottom := obj.Y + scoopdObjectSize
		caught := bottom >= bucketTop && bottom <= bucketBottom &&
			centerX >= s.bucketX-scoopdBucketWidth/2 &&
			centerX <= s.bucketX+scoopdBucketWidth/2

		if !caught {
			kept = append(kept, obj)
			continue
		}

		if obj.Letter == s.target {
			s.score += scoopdCatchScore
			s.target = s.randomLetter()
			if s.speed += scoopdSpeedStep; s.speed > scoopdMaxSpeed {
				s.speed = scoopdMaxSpeed
			}
		} else {
			s.lives--
		}
	}
	s.objects = kept

	if s.lives <= 0 {
		s.done = true
		s.complete.fire(s.score)
	}
}

// Run drives the simulation until the game completes or the context is
// cancelled. Callers own the context and must cancel it when the client
// goes away; an abandoned session must not keep ticking.
func (s *Scoopd) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = time.Second / scoopdFrameRate
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Advance(now.Sub(last))
			last = now
			if s.Complete() {
				return nil
			}
		}
	}
}

func (s *Scoopd) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Game:  "scoopd",
		Done:  s.done,
		Score: s.score,
		Data: ScoopdData{
			BucketX: s.bucketX,
			Objects: append([]fallingObject(nil), s.objects...),
			Target:  s.target,
			Lives:   s.lives,
			Speed:   s.speed,
		},
	}
}
