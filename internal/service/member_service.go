package service

import (
	"context"
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"
	"neonfit/studio-tracker/internal/storage"
	"strings"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrMemberNameRequired   = errors.New("member name is required")
	ErrDuplicateMemberName  = errors.New("a member with this name already exists")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInvalidDate          = errors.New("date must be formatted YYYY-MM-DD")
	ErrMemberCreateFailed   = errors.New("failed to create member")
	ErrMemberDeleteFailed   = errors.New("failed to delete member")
	ErrPhotoUpdateFailed    = errors.New("failed to update member photo")
	ErrPhotoStorageDisabled = errors.New("photo storage is not configured")
	ErrNoPhoto              = errors.New("member has no photo")
	ErrPhotoURLFailed       = errors.New("failed to generate photo URL")
)

// PhotoUploadURL is returned to a client that is about to upload a progress photo.
type PhotoUploadURL struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // store it with UpdatePhoto once the upload succeeds
}

type MemberService interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	AddMember(ctx context.Context, name string, opts domain.MemberOptions) (*domain.Member, error)
	DeleteMember(ctx context.Context, id string) error
	UpdatePhoto(ctx context.Context, id, photoRef string) error

	RequestPhotoUploadURL(ctx context.Context, memberID, contentType string) (*PhotoUploadURL, error)
	PhotoViewURL(ctx context.Context, memberID string) (string, error)
}

type memberService struct {
	memberRepo  repository.MemberRepository
	workoutRepo repository.WorkoutRepository
	photos      storage.PhotoStorage // nil when photo storage is disabled
}

// NewMemberService creates a new member service. photos may be nil.
func NewMemberService(memberRepo repository.MemberRepository, workoutRepo repository.WorkoutRepository, photos storage.PhotoStorage) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		workoutRepo: workoutRepo,
		photos:      photos,
	}
}

// ListMembers returns every member with their workouts attached in date order.
// Store failures are logged and yield an empty list; only a missing store
// configuration is returned as an error.
func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		if repository.IsNotConfigured(err) {
			return nil, err
		}
		log.Errorf("list members: %v", err)
		return []domain.Member{}, nil
	}

	workouts, err := s.workoutRepo.ListAll(ctx)
	if err != nil {
		if repository.IsNotConfigured(err) {
			return nil, err
		}
		log.Errorf("list workouts: %v", err)
		return []domain.Member{}, nil
	}
	domain.SortWorkouts(workouts)

	byMember := make(map[string][]domain.Workout, len(members))
	for _, w := range workouts {
		byMember[w.MemberID] = append(byMember[w.MemberID], w)
	}
	for i := range members {
		if ws, ok := byMember[members[i].ID]; ok {
			members[i].Workouts = ws
		} else {
			members[i].Workouts = []domain.Workout{}
		}
	}
	return members, nil
}

func (s *memberService) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	workouts, err := s.workoutRepo.ListByMember(ctx, id)
	if err != nil {
		if repository.IsNotConfigured(err) {
			return nil, err
		}
		log.Errorf("list workouts of member %s: %v", id, err)
		workouts = []domain.Workout{}
	}
	domain.SortWorkouts(workouts)
	member.Workouts = workouts
	return member, nil
}

// AddMember creates a member with a trimmed name. The join date defaults to
// today and the avatar to a generated one. Names are unique case-insensitively.
func (s *memberService) AddMember(ctx context.Context, name string, opts domain.MemberOptions) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMemberNameRequired
	}
	if opts.JoinDate != "" && !domain.ValidDate(opts.JoinDate) {
		return nil, ErrInvalidDate
	}

	existing, err := s.memberRepo.List(ctx)
	if err != nil {
		if repository.IsNotConfigured(err) {
			return nil, err
		}
		log.Warnf("duplicate name check skipped: %v", err)
	}
	for _, m := range existing {
		if domain.SameName(m.Name, name) {
			return nil, ErrDuplicateMemberName
		}
	}

	member := &domain.Member{
		Name:     name,
		JoinDate: opts.JoinDate,
		Avatar:   opts.Avatar,
		PhotoURL: opts.PhotoURL,
		Workouts: []domain.Workout{},
	}
	if member.JoinDate == "" {
		member.JoinDate = domain.Today()
	}
	if member.Avatar == "" {
		member.Avatar = domain.DefaultAvatarURL(name)
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		log.Errorf("create member %q: %v", name, err)
		return nil, fmt.Errorf("%w: %w", ErrMemberCreateFailed, err)
	}
	log.Infof("member %s created (%s)", member.ID, member.Name)
	return member, nil
}

// DeleteMember removes the member's workouts and then the member. A failure
// to remove workouts is logged and does not stop the member removal.
func (s *memberService) DeleteMember(ctx context.Context, id string) error {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("%w: %w", ErrMemberDeleteFailed, err)
	}

	if err := s.workoutRepo.DeleteByMember(ctx, id); err != nil {
		log.Errorf("delete workouts of member %s: %v", id, err)
	}

	if err := s.memberRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		log.Errorf("delete member %s: %v", id, err)
		return fmt.Errorf("%w: %w", ErrMemberDeleteFailed, err)
	}

	if s.photos != nil && storage.IsObjectKey(member.PhotoURL) {
		if err := s.photos.DeleteObject(ctx, member.PhotoURL); err != nil {
			log.Warnf("photo %s of deleted member %s left in storage: %v", member.PhotoURL, id, err)
		}
	}
	log.Infof("member %s deleted", id)
	return nil
}

func (s *memberService) UpdatePhoto(ctx context.Context, id, photoRef string) error {
	if err := s.memberRepo.UpdatePhoto(ctx, id, photoRef); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		log.Errorf("update photo of member %s: %v", id, err)
		return fmt.Errorf("%w: %w", ErrPhotoUpdateFailed, err)
	}
	return nil
}

// RequestPhotoUploadURL presigns an upload of a new progress photo for the member.
func (s *memberService) RequestPhotoUploadURL(ctx context.Context, memberID, contentType string) (*PhotoUploadURL, error) {
	if s.photos == nil {
		return nil, ErrPhotoStorageDisabled
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	key, err := storage.PhotoObjectKey(memberID, contentType)
	if err != nil {
		return nil, err
	}
	url, err := s.photos.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPhotoURLFailed, err)
	}
	return &PhotoUploadURL{UploadURL: url, ObjectKey: key}, nil
}

// PhotoViewURL resolves the member's photo reference to something a client can
// load: stored objects get a presigned URL, other references pass through.
func (s *memberService) PhotoViewURL(ctx context.Context, memberID string) (string, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMemberNotFound
		}
		return "", err
	}
	if member.PhotoURL == "" {
		return "", ErrNoPhoto
	}
	if !storage.IsObjectKey(member.PhotoURL) {
		return member.PhotoURL, nil
	}
	if s.photos == nil {
		return "", ErrPhotoStorageDisabled
	}
	url, err := s.photos.GeneratePresignedDownloadURL(ctx, member.PhotoURL, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPhotoURLFailed, err)
	}
	return url, nil
}
