package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSeedFailed     = errors.New("failed to seed demo data")
	ErrSeedInProgress = errors.New("demo data seeding is already running")
)

// SeedSkipReasonHasMembers is reported when the store already holds members.
const SeedSkipReasonHasMembers = "already_has_members"

var seedNames = []string{
	"Alice Chen", "Bob Smith", "Cathy Wu", "David Liu", "Ella Zhang",
	"Frank Zhao", "Grace Lin", "Henry Gu", "Ivy Sun", "Jack Ma",
	"Kevin King", "Laura Li", "Michael Wang", "Nancy He", "Oscar Yang",
	"Peter Pan", "Queenie Tan", "Ryan Ho", "Sophie Xu", "Tom Cruise",
}

var seedExercises = []string{"Squat", "Bench Press", "Deadlift", "Overhead Press", "Barbell Row", "Lunge", "Pull Up"}

// SeedMember is one generated demo member with its training history.
type SeedMember struct {
	Name     string
	JoinDate string
	Avatar   string
	Workouts []domain.WorkoutInput
}

// SeedFailureMessage is the notice shown when the demo import fails.
func SeedFailureMessage(lang advisor.Language) string {
	if lang == advisor.Chinese {
		return "导入示例数据失败，请检查数据库配置或网络。"
	}
	return "Failed to import demo data. Check the store configuration or network."
}

type SeedResult struct {
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
}

type SeedService interface {
	// SeedSampleData fills an empty store with demo members. It does nothing
	// when any member exists.
	SeedSampleData(ctx context.Context) (*SeedResult, error)
}

type seedService struct {
	memberRepo  repository.MemberRepository
	workoutRepo repository.WorkoutRepository
	rng         *rand.Rand
	running     atomic.Bool
}

// NewSeedService creates a seed service. A nil rng uses a randomly seeded source.
func NewSeedService(memberRepo repository.MemberRepository, workoutRepo repository.WorkoutRepository, rng *rand.Rand) SeedService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &seedService{
		memberRepo:  memberRepo,
		workoutRepo: workoutRepo,
		rng:         rng,
	}
}

func (s *seedService) SeedSampleData(ctx context.Context) (*SeedResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSeedInProgress
	}
	defer s.running.Store(false)

	existing, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}
	if len(existing) > 0 {
		return &SeedResult{Skipped: true, Reason: SeedSkipReasonHasMembers}, nil
	}

	seeds := GenerateSeedMembers(s.rng)
	for _, seed := range seeds {
		member := &domain.Member{Name: seed.Name, JoinDate: seed.JoinDate, Avatar: seed.Avatar}
		if err := s.memberRepo.Create(ctx, member); err != nil {
			log.Errorf("seed member %q: %v", seed.Name, err)
			return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
		}
		if len(seed.Workouts) == 0 {
			continue
		}
		if _, err := s.workoutRepo.CreateMany(ctx, member.ID, seed.Workouts); err != nil {
			log.Errorf("seed workouts of %q: %v", seed.Name, err)
			return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
		}
	}

	log.Infof("seeded %d demo members", len(seeds))
	return &SeedResult{Inserted: len(seeds)}, nil
}

// GenerateSeedMembers builds the demo roster. Each member starts on the first
// of a month in the first half of 2024 and trains every third day with a
// steadily increasing load.
func GenerateSeedMembers(rng *rand.Rand) []SeedMember {
	members := make([]SeedMember, 0, len(seedNames))
	for index, name := range seedNames {
		baseWeight := 30 + float64(index*5)
		intensity := 1 + float64(index%3)*0.5
		startMonth := 1 + index%6

		members = append(members, SeedMember{
			Name:     name,
			JoinDate: fmt.Sprintf("2024-%02d-01", startMonth),
			Avatar:   domain.DefaultAvatarURL(name),
			Workouts: progressiveWorkouts(rng, startMonth, baseWeight, intensity),
		})
	}
	return members
}

func progressiveWorkouts(rng *rand.Rand, startMonth int, baseWeight, intensity float64) []domain.WorkoutInput {
	sessionCount := 15 + rng.IntN(10)
	var workouts []domain.WorkoutInput

	for i := 0; i < sessionCount; i++ {
		days := i*3 + rng.IntN(2)
		date := time.Date(2024, time.Month(startMonth), 1+days, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout)

		exercisesInSession := 1 + i%3
		for j := 0; j < exercisesInSession; j++ {
			workouts = append(workouts, domain.WorkoutInput{
				Date:     date,
				Exercise: seedExercises[(i+j)%len(seedExercises)],
				Weight:   math.Round(baseWeight + float64(i)*intensity + rng.Float64()*2),
				Sets:     3 + i%2,
				Reps:     8 + i%5,
			})
		}
	}
	return workouts
}
