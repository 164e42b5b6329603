package studio

import (
	"bytes"
	"context"
	"math/rand/v2"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/export"
	"neonfit/studio-tracker/internal/repository/sqlstore"
	"neonfit/studio-tracker/internal/service"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      Services
	markers  *MemoryMarkerStore
	aliceID  string
	bobID    string
	linkedID string // member linked to the "alice" login
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:", "")
	require.NoError(t, err)
	store := sqlstore.NewStore(db)
	t.Cleanup(func() { store.Close(context.Background()) })

	auth, err := service.NewAuthService(store.Users, "studio-test", 0)
	require.NoError(t, err)
	members := service.NewMemberService(store.Members, store.Workouts, nil)
	svc := Services{
		Auth:     auth,
		Members:  members,
		Workouts: service.NewWorkoutService(store.Members, store.Workouts),
		Seed:     service.NewSeedService(store.Members, store.Workouts, rand.New(rand.NewPCG(3, 5))),
		Coach:    advisor.NewCoachWithClient(nil, "", 0),
	}

	alice, err := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{JoinDate: "2024-01-01"})
	require.NoError(t, err)
	bob, err := members.AddMember(ctx, "Bob Smith", domain.MemberOptions{JoinDate: "2024-02-01"})
	require.NoError(t, err)

	_, err = auth.CreateUser(ctx, "admin", "admin-pass", domain.RoleAdmin, nil)
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "alice", "alice-pass", domain.RoleMember, &alice.ID)
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "guest", "guest-pass", domain.RoleMember, nil)
	require.NoError(t, err)

	return &fixture{svc: svc, markers: &MemoryMarkerStore{}, aliceID: alice.ID, bobID: bob.ID, linkedID: alice.ID}
}

func (f *fixture) loggedIn(t *testing.T, username, password string) *Studio {
	t.Helper()
	s := New(f.svc, f.markers)
	_, err := s.Login(context.Background(), username, password)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLogin_PersistsMarkers(t *testing.T) {
	f := newFixture(t)
	s := New(f.svc, f.markers)

	_, err := s.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	assert.False(t, s.LoggedIn())
	m, err := f.markers.Load()
	require.NoError(t, err)
	assert.Nil(t, m)

	session, err := s.Login(context.Background(), "alice", "alice-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, session.Role)
	assert.Equal(t, f.linkedID, session.MemberID)

	m, err = f.markers.Load()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, session.Token, m.AuthToken)
	assert.Contains(t, m.AuthUser, `"username":"alice"`)
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	first := New(f.svc, f.markers)
	_, err := first.Login(context.Background(), "admin", "admin-pass")
	require.NoError(t, err)

	second := New(f.svc, f.markers)
	ok, err := second.Restore()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "admin", second.Session().Username)
	assert.NotNil(t, second.Admin())

	require.NoError(t, f.markers.Save(Markers{AuthUser: `{"id":"x"}`, AuthToken: "forged"}))
	third := New(f.svc, f.markers)
	ok, err = third.Restore()
	require.NoError(t, err)
	assert.False(t, ok)
	m, _ := f.markers.Load()
	assert.Nil(t, m, "stale markers are cleared")
}

func TestLogout_ClearsState(t *testing.T) {
	f := newFixture(t)
	s := f.loggedIn(t, "admin", "admin-pass")
	require.Len(t, s.Members(), 2)

	require.NoError(t, s.Logout())
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Members())
	assert.Nil(t, s.Selected())
	assert.Nil(t, s.Admin())
	m, _ := f.markers.Load()
	assert.Nil(t, m)

	assert.ErrorIs(t, s.Load(context.Background()), ErrNotLoggedIn)
	restored, err := New(f.svc, f.markers).Restore()
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestLoad_ByRole(t *testing.T) {
	f := newFixture(t)

	admin := f.loggedIn(t, "admin", "admin-pass")
	require.Len(t, admin.Members(), 2)
	assert.Equal(t, f.aliceID, admin.Selected().ID)

	member := f.loggedIn(t, "alice", "alice-pass")
	require.Len(t, member.Members(), 1)
	assert.Equal(t, f.aliceID, member.Selected().ID)
	assert.Nil(t, member.Admin())
	assert.ErrorIs(t, member.Select(f.bobID), ErrUnknownMember)

	guest := f.loggedIn(t, "guest", "guest-pass")
	assert.Empty(t, guest.Members())
	assert.Nil(t, guest.Selected())
}

func TestSelect(t *testing.T) {
	f := newFixture(t)
	s := f.loggedIn(t, "admin", "admin-pass")

	require.NoError(t, s.Select("  bob smith "))
	assert.Equal(t, f.bobID, s.Selected().ID)
	require.NoError(t, s.Select(f.aliceID))
	assert.Equal(t, f.aliceID, s.Selected().ID)
	assert.ErrorIs(t, s.Select("Nobody"), ErrUnknownMember)
}

func TestAdmin_MemberSelection(t *testing.T) {
	f := newFixture(t)
	s := f.loggedIn(t, "admin", "admin-pass")
	ctx := context.Background()
	admin := s.Admin()
	require.NotNil(t, admin)

	cathy, err := admin.AddMember(ctx, "Cathy Wu", domain.MemberOptions{})
	require.NoError(t, err)
	assert.Equal(t, cathy.ID, s.Selected().ID)
	assert.Len(t, s.Members(), 3)

	// deleting an unselected member keeps the selection
	require.NoError(t, admin.DeleteMember(ctx, f.bobID))
	assert.Equal(t, cathy.ID, s.Selected().ID)

	require.NoError(t, admin.DeleteMember(ctx, "cathy wu"))
	assert.Equal(t, f.aliceID, s.Selected().ID)

	require.NoError(t, admin.DeleteMember(ctx, f.aliceID))
	assert.Nil(t, s.Selected())
	assert.Empty(t, s.Members())
}

func TestAdmin_WorkoutsKeepLocalCopyInSync(t *testing.T) {
	f := newFixture(t)
	s := f.loggedIn(t, "admin", "admin-pass")
	ctx := context.Background()
	admin := s.Admin()

	created, err := admin.AddWorkouts(ctx, []domain.WorkoutInput{
		{Date: "2024-01-08", Exercise: "Squat", Weight: 55, Sets: 3, Reps: 8},
		{Date: "2024-01-01", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	ws := s.Selected().Workouts
	require.Len(t, ws, 2)
	assert.Equal(t, "2024-01-01", ws[0].Date)

	updated := created[1]
	updated.Weight = 52.5
	require.NoError(t, admin.UpdateWorkout(ctx, updated))
	assert.Equal(t, 52.5, s.Selected().Workouts[0].Weight)

	result, err := admin.SaveSession(ctx, "2024-01-08", []domain.WorkoutInput{
		{Exercise: "Deadlift", Weight: 80, Sets: 5, Reps: 5},
		{Exercise: "Lunge", Weight: 20, Sets: 3, Reps: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{created[0].ID}, result.Removed)
	ws = s.Selected().Workouts
	require.Len(t, ws, 3)
	assert.Equal(t, "Deadlift", ws[1].Exercise)
	assert.Equal(t, "Lunge", ws[2].Exercise)

	require.NoError(t, admin.DeleteWorkout(ctx, created[1].ID))
	assert.Len(t, s.Selected().Workouts, 2)

	// the store agrees with the local copy
	fresh, err := f.svc.Members.GetMember(ctx, f.aliceID)
	require.NoError(t, err)
	assert.Equal(t, s.Selected().Workouts, fresh.Workouts)
}

func TestAdmin_Seed(t *testing.T) {
	f := newFixture(t)
	s := f.loggedIn(t, "admin", "admin-pass")
	ctx := context.Background()
	admin := s.Admin()

	result, err := admin.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	require.NoError(t, admin.DeleteMember(ctx, f.aliceID))
	require.NoError(t, admin.DeleteMember(ctx, f.bobID))
	result, err = admin.Seed(ctx)
	require.NoError(t, err)
	assert.Positive(t, result.Inserted)
	require.Len(t, s.Members(), result.Inserted)
	assert.Equal(t, s.Members()[0].ID, s.Selected().ID)
}

func TestExportAndAdvice(t *testing.T) {
	f := newFixture(t)
	s := f.loggedIn(t, "alice", "alice-pass")
	ctx := context.Background()

	var buf bytes.Buffer
	_, err := s.Export(&buf)
	assert.ErrorIs(t, err, export.ErrNoWorkouts)

	_, err = f.svc.Workouts.AddWorkouts(ctx, f.aliceID, []domain.WorkoutInput{{Date: "2024-01-01", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8}})
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))

	restore := nowFunc
	t.Cleanup(func() { nowFunc = restore })
	nowFunc = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	name, err := s.Export(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Alice_Chen_History_2024-05-01.xlsx", name)
	assert.NotZero(t, buf.Len())

	advice, err := s.Advise(ctx, "", advisor.English)
	assert.ErrorIs(t, err, advisor.ErrMissingAPIKey)
	assert.Equal(t, advisor.MissingKeyMessage(advisor.English), advice.Text)
}

func TestFileMarkerStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	store := NewFileMarkerStore(path)

	m, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, m)

	want := Markers{AuthUser: `{"id":"1","username":"admin","role":"admin"}`, AuthToken: "abc.def.ghi"}
	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	m, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, m)
}
