// Package studio holds the state of one client session: who is logged in,
// the loaded members and which of them is selected. Mutating actions are only
// reachable through the value returned by Admin.
//
// A Studio is not safe for concurrent use.
package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/export"
	"neonfit/studio-tracker/internal/service"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrNoSelection     = errors.New("no member selected")
	ErrUnknownMember   = errors.New("member is not loaded")
	ErrAmbiguousMember = errors.New("more than one loaded member matches")
)

// Services are the collaborators a Studio drives.
type Services struct {
	Auth     service.AuthService
	Members  service.MemberService
	Workouts service.WorkoutService
	Seed     service.SeedService
	Coach    *advisor.Coach
}

type Studio struct {
	svc     Services
	markers MarkerStore

	session    *domain.LoginSession
	members    []domain.Member
	selectedID string
}

func New(svc Services, markers MarkerStore) *Studio {
	return &Studio{svc: svc, markers: markers}
}

// Restore re-establishes the session saved by a previous Login. Markers that
// cannot be decoded or whose token no longer verifies are cleared and leave
// the studio logged out.
func (s *Studio) Restore() (bool, error) {
	m, err := s.markers.Load()
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}

	var saved domain.LoginSession
	if err := json.Unmarshal([]byte(m.AuthUser), &saved); err != nil || m.AuthToken == "" {
		log.Warnf("discarding unreadable session markers")
		return false, s.markers.Clear()
	}

	session, err := s.svc.Auth.ParseToken(m.AuthToken)
	if err != nil || session.UserID != saved.UserID {
		log.Warnf("discarding stale session markers for %q", saved.Username)
		return false, s.markers.Clear()
	}

	s.session = session
	return true, nil
}

// Login verifies the credentials and persists the session markers. On failure
// the markers and the current state are left untouched.
func (s *Studio) Login(ctx context.Context, username, password string) (*domain.LoginSession, error) {
	session, err := s.svc.Auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.markers.Save(Markers{AuthUser: string(raw), AuthToken: session.Token}); err != nil {
		return nil, err
	}

	s.reset()
	s.session = session
	return session, nil
}

// Logout removes the markers and drops every loaded member.
func (s *Studio) Logout() error {
	s.session = nil
	s.reset()
	return s.markers.Clear()
}

func (s *Studio) reset() {
	s.members = nil
	s.selectedID = ""
}

// Session returns the current login, nil when logged out.
func (s *Studio) Session() *domain.LoginSession {
	return s.session
}

func (s *Studio) LoggedIn() bool {
	return s.session != nil
}

// Load fetches the members visible to the session: every member for an admin,
// only the linked member otherwise. The first member becomes the selection.
func (s *Studio) Load(ctx context.Context) error {
	if s.session == nil {
		return ErrNotLoggedIn
	}

	var members []domain.Member
	if s.session.IsAdmin() {
		all, err := s.svc.Members.ListMembers(ctx)
		if err != nil {
			return err
		}
		members = all
	} else if s.session.MemberID != "" {
		m, err := s.svc.Members.GetMember(ctx, s.session.MemberID)
		switch {
		case err == nil:
			members = []domain.Member{*m}
		case errors.Is(err, service.ErrMemberNotFound):
			log.Warnf("linked member %s of %q no longer exists", s.session.MemberID, s.session.Username)
		default:
			return err
		}
	}

	s.members = members
	s.selectFirst()
	return nil
}

func (s *Studio) selectFirst() {
	if len(s.members) > 0 {
		s.selectedID = s.members[0].ID
	} else {
		s.selectedID = ""
	}
}

// Members returns the loaded members in store order.
func (s *Studio) Members() []domain.Member {
	return s.members
}

// Select makes a loaded member current. ref is a member id or a name compared
// case-insensitively.
func (s *Studio) Select(ref string) error {
	idx, err := s.find(ref)
	if err != nil {
		return err
	}
	s.selectedID = s.members[idx].ID
	return nil
}

func (s *Studio) find(ref string) (int, error) {
	for i := range s.members {
		if s.members[i].ID == ref {
			return i, nil
		}
	}
	found := -1
	for i := range s.members {
		if domain.SameName(s.members[i].Name, ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguousMember, ref)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownMember, ref)
	}
	return found, nil
}

// Selected returns the current member, nil when none is selected.
func (s *Studio) Selected() *domain.Member {
	for i := range s.members {
		if s.members[i].ID == s.selectedID {
			return &s.members[i]
		}
	}
	return nil
}

func (s *Studio) requireSelected() (*domain.Member, error) {
	if s.session == nil {
		return nil, ErrNotLoggedIn
	}
	m := s.Selected()
	if m == nil {
		return nil, ErrNoSelection
	}
	return m, nil
}

// Advise asks the coach about the selected member.
func (s *Studio) Advise(ctx context.Context, question string, lang advisor.Language) (advisor.Advice, error) {
	m, err := s.requireSelected()
	if err != nil {
		return advisor.Advice{Language: lang}, err
	}
	return s.svc.Coach.Advise(ctx, m, question, lang)
}

// Export writes the selected member's history and returns the file name to use.
func (s *Studio) Export(w io.Writer) (string, error) {
	m, err := s.requireSelected()
	if err != nil {
		return "", err
	}
	if err := export.WriteHistory(w, m); err != nil {
		return "", err
	}
	return export.HistoryFileName(m.Name, nowFunc()), nil
}

// PhotoURL returns a viewable URL of the selected member's progress photo.
func (s *Studio) PhotoURL(ctx context.Context) (string, error) {
	m, err := s.requireSelected()
	if err != nil {
		return "", err
	}
	return s.svc.Members.PhotoViewURL(ctx, m.ID)
}

// CreateUser adds a login. It is store tooling for bootstrapping the first
// admin and does not look at the current session.
func (s *Studio) CreateUser(ctx context.Context, username, password string, role domain.Role, memberID *string) (*domain.User, error) {
	return s.svc.Auth.CreateUser(ctx, username, password, role, memberID)
}

// Admin returns the mutating actions, or nil unless the session is an admin.
func (s *Studio) Admin() *AdminActions {
	if !s.session.IsAdmin() {
		return nil
	}
	return &AdminActions{s: s}
}
