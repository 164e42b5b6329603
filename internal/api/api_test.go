package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/export"
	"neonfit/studio-tracker/internal/metrics"
	"neonfit/studio-tracker/internal/repository"
	"neonfit/studio-tracker/internal/repository/sqlstore"
	"neonfit/studio-tracker/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubCompletion struct {
	answer string
	err    error
}

func (s stubCompletion) Complete(context.Context, advisor.CompletionRequest) (string, error) {
	return s.answer, s.err
}

type testServer struct {
	router  *gin.Engine
	store   *repository.Store
	members service.MemberService
	metrics *metrics.Manager

	adminToken  string
	memberToken string
	memberID    string // linked to memberToken
	otherID     string
}

func newTestServer(t *testing.T, completion advisor.Client) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:", "")
	require.NoError(t, err)
	store := sqlstore.NewStore(db)
	t.Cleanup(func() { store.Close(context.Background()) })

	authService, err := service.NewAuthService(store.Users, testSecret, 0)
	require.NoError(t, err)
	memberService := service.NewMemberService(store.Members, store.Workouts, nil)
	m, reg := metrics.NewTestManagerAndRegistry()

	router := gin.New()
	SetupRoutes(router, Services{
		Auth:     authService,
		Members:  memberService,
		Workouts: service.NewWorkoutService(store.Members, store.Workouts),
		Seed:     service.NewSeedService(store.Members, store.Workouts, rand.New(rand.NewPCG(7, 11))),
		Coach:    advisor.NewCoachWithClient(completion, "", 0),
		Metrics:  m,
		Registry: reg,
	})

	alice, err := memberService.AddMember(ctx, "Alice Chen", domain.MemberOptions{JoinDate: "2024-01-01"})
	require.NoError(t, err)
	bob, err := memberService.AddMember(ctx, "Bob Smith", domain.MemberOptions{JoinDate: "2024-02-01"})
	require.NoError(t, err)

	_, err = authService.CreateUser(ctx, "admin", "admin-pass", domain.RoleAdmin, nil)
	require.NoError(t, err)
	_, err = authService.CreateUser(ctx, "alice", "alice-pass", domain.RoleMember, &alice.ID)
	require.NoError(t, err)

	adminSession, err := authService.Login(ctx, "admin", "admin-pass")
	require.NoError(t, err)
	memberSession, err := authService.Login(ctx, "alice", "alice-pass")
	require.NoError(t, err)

	return &testServer{
		router:      router,
		store:       store,
		members:     memberService,
		metrics:     m,
		adminToken:  adminSession.Token,
		memberToken: memberSession.Token,
		memberID:    alice.ID,
		otherID:     bob.ID,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) addWorkouts(t *testing.T, memberID string, body AddWorkoutsRequest) []domain.Workout {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/members/"+memberID+"/workouts", s.adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[[]domain.Workout](t, w)
}

func TestPingAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studio_test_server_request")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "alice", Password: "alice-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[LoginResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.RoleMember, resp.User.Role)
	assert.Equal(t, s.memberID, resp.User.MemberID)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "nobody", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterLogins.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.CounterLogins.WithLabelValues("rejected")))
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/members", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/me", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[domain.LoginSession](t, w)
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, domain.RoleAdmin, me.Role)

	w = s.do(t, http.MethodPost, "/api/v1/auth/logout", s.memberToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMemberRole_IsScopedAndReadOnly(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/members", s.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	visible := decode[[]domain.Member](t, w)
	require.Len(t, visible, 1)
	assert.Equal(t, s.memberID, visible[0].ID)

	w = s.do(t, http.MethodGet, "/api/v1/members/"+s.memberID, s.memberToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/members/"+s.otherID, s.memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/members/"+s.otherID+"/stats", s.memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/members", s.memberToken, CreateMemberRequest{Name: "Mallory"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/members/"+s.memberID+"/workouts", s.memberToken, AddWorkoutsRequest{
		Workouts: []WorkoutRequest{{Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/seed", s.memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/members", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Member](t, w), 2)
}

func TestAdmin_MemberLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/members", s.adminToken, CreateMemberRequest{Name: "Cathy Wu", JoinDate: "2024-03-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cathy := decode[domain.Member](t, w)
	assert.Equal(t, "2024-03-01", cathy.JoinDate)
	assert.Equal(t, domain.DefaultAvatarURL("Cathy Wu"), cathy.Avatar)

	w = s.do(t, http.MethodPost, "/api/v1/members", s.adminToken, CreateMemberRequest{Name: " cathy wu "})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/members", s.adminToken, CreateMemberRequest{Name: "Dan", JoinDate: "03/01/2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.addWorkouts(t, cathy.ID, AddWorkoutsRequest{Date: "2024-03-02", Workouts: []WorkoutRequest{{Exercise: "Squat", Weight: 60, Sets: 3, Reps: 5}}})

	w = s.do(t, http.MethodGet, "/api/v1/members?view=summary", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decode[[]MemberSummaryResponse](t, w)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Cathy Wu", summaries[2].Name)
	assert.Equal(t, 1, summaries[2].Workouts)

	w = s.do(t, http.MethodDelete, "/api/v1/members/"+cathy.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/members/"+cathy.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/members/"+cathy.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	remaining, err := s.store.Workouts.ListByMember(context.Background(), cathy.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAdmin_WorkoutEditing(t *testing.T) {
	s := newTestServer(t, nil)
	base := "/api/v1/members/" + s.memberID

	created := s.addWorkouts(t, s.memberID, AddWorkoutsRequest{Date: "2024-01-01", Workouts: []WorkoutRequest{
		{Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8},
		{Exercise: "Bench Press", Weight: 40, Sets: 3, Reps: 10},
	}})
	require.Len(t, created, 2)
	assert.Equal(t, "2024-01-01", created[0].Date)

	w := s.do(t, http.MethodPost, base+"/workouts", s.adminToken, AddWorkoutsRequest{
		Workouts: []WorkoutRequest{{Exercise: "Squat", Weight: 50, Sets: 0, Reps: 8}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	update := WorkoutRequest{Date: "2024-01-01", Exercise: "  Squat ", Weight: 52.5, Sets: 3, Reps: 8}
	w = s.do(t, http.MethodPut, base+"/workouts/"+created[0].ID, s.adminToken, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.Workout](t, w)
	assert.Equal(t, 52.5, updated.Weight)
	assert.Equal(t, "Squat", updated.Exercise, "response carries the stored name")

	// a workout id is only reachable through its owner
	w = s.do(t, http.MethodPut, "/api/v1/members/"+s.otherID+"/workouts/"+created[0].ID, s.adminToken, update)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, base+"/sessions/2024-01-01", s.adminToken, ReplaceSessionRequest{
		Workouts: []WorkoutRequest{{Date: "2030-12-31", Exercise: "Deadlift", Weight: 80, Sets: 5, Reps: 5}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replaced := decode[service.SessionReplacement](t, w)
	assert.ElementsMatch(t, []string{created[0].ID, created[1].ID}, replaced.Removed)
	require.Len(t, replaced.Created, 1)
	assert.Equal(t, "2024-01-01", replaced.Created[0].Date)

	w = s.do(t, http.MethodDelete, base+"/workouts/"+replaced.Created[0].ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, base+"/workouts/"+replaced.Created[0].ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, base+"/sessions/not-a-date", s.adminToken, ReplaceSessionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsights(t *testing.T) {
	s := newTestServer(t, nil)
	base := "/api/v1/members/" + s.memberID
	s.addWorkouts(t, s.memberID, AddWorkoutsRequest{Workouts: []WorkoutRequest{
		{Date: "2024-01-01", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8},
		{Date: "2024-01-08", Exercise: "Squat", Weight: 55, Sets: 3, Reps: 8},
	}})

	w := s.do(t, http.MethodGet, base+"/stats?month=2024-01", s.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode[StatsResponse](t, w)
	assert.Equal(t, 2, st.MonthlyCount)
	assert.Equal(t, 55.0, st.MaxWeight)
	assert.Equal(t, 2520.0, st.TotalVolume)
	assert.Equal(t, "2.5k", st.TotalVolumeDisplay)

	w = s.do(t, http.MethodGet, base+"/stats?month=January", s.memberToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, base+"/chart?metric=weight&exercise=Squat", s.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var chart struct {
		Points []struct {
			Label  string             `json:"label"`
			Values map[string]float64 `json:"values"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	require.Len(t, chart.Points, 2)
	assert.Equal(t, "01-01", chart.Points[0].Label)
	assert.Equal(t, 50.0, chart.Points[0].Values["Squat"])
	assert.Equal(t, 55.0, chart.Points[1].Values["Squat"])

	w = s.do(t, http.MethodGet, base+"/chart?metric=reps", s.memberToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, base+"/calendar?month=2024-01", s.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cal := decode[CalendarResponse](t, w)
	assert.Equal(t, 1, cal.LeadingBlanks) // 2024-01-01 is a Monday
	require.Len(t, cal.Days, 31)
	assert.Equal(t, 1, cal.Days[0].Workouts)
	assert.Equal(t, []string{"Squat"}, cal.Days[0].Exercises)

	w = s.do(t, http.MethodGet, base+"/sessions", s.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.TrainingSession](t, w), 2)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/members/"+s.memberID+"/export", s.memberToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), export.NoWorkoutsMessage)

	s.addWorkouts(t, s.memberID, AddWorkoutsRequest{Date: "2024-01-01", Workouts: []WorkoutRequest{{Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8}}})

	w = s.do(t, http.MethodGet, "/api/v1/members/"+s.memberID+"/export", s.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Alice_Chen_History_")
	assert.NotZero(t, w.Body.Len())
}

func TestAdvice(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := newTestServer(t, stubCompletion{answer: "Add 2.5kg next week."})
		w := s.do(t, http.MethodPost, "/api/v1/members/"+s.memberID+"/advice", s.memberToken, AdviceRequest{Question: "What next?"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[AdviceResponse](t, w)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "Add 2.5kg next week.", resp.Advice)
		assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CounterAdviceCalls.WithLabelValues("ok")))
	})

	t.Run("unconfigured", func(t *testing.T) {
		s := newTestServer(t, nil)
		w := s.do(t, http.MethodPost, "/api/v1/members/"+s.memberID+"/advice", s.adminToken, AdviceRequest{Language: "zh"})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[AdviceResponse](t, w)
		assert.Equal(t, "unconfigured", resp.Status)
		assert.Equal(t, advisor.MissingKeyMessage(advisor.Chinese), resp.Advice)
	})

	t.Run("failed", func(t *testing.T) {
		s := newTestServer(t, stubCompletion{err: errors.New("quota exceeded")})
		w := s.do(t, http.MethodPost, "/api/v1/members/"+s.memberID+"/advice", s.adminToken, nil)
		require.Equal(t, http.StatusBadGateway, w.Code)
		resp := decode[AdviceResponse](t, w)
		assert.Equal(t, advisor.FailureMessage(advisor.English), resp.Advice)
	})
}

func TestSeed(t *testing.T) {
	s := newTestServer(t, nil)

	// the fixture members make the store non-empty
	w := s.do(t, http.MethodPost, "/api/v1/seed", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[service.SeedResult](t, w)
	assert.True(t, result.Skipped)
	assert.Equal(t, service.SeedSkipReasonHasMembers, result.Reason)

	ctx := context.Background()
	for _, id := range []string{s.memberID, s.otherID} {
		require.NoError(t, s.members.DeleteMember(ctx, id))
	}

	w = s.do(t, http.MethodPost, "/api/v1/seed", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result = decode[service.SeedResult](t, w)
	assert.False(t, result.Skipped)
	assert.Equal(t, len(service.GenerateSeedMembers(rand.New(rand.NewPCG(1, 1)))), result.Inserted)
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t, nil)

	req := CreateUserRequest{Username: "bob", Password: "bob-pass", Role: domain.RoleMember, MemberID: &s.otherID}
	w := s.do(t, http.MethodPost, "/api/v1/users", s.adminToken, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[UserResponse](t, w)
	assert.Equal(t, "bob", user.Username)
	require.NotNil(t, user.MemberID)
	assert.Equal(t, s.otherID, *user.MemberID)

	w = s.do(t, http.MethodPost, "/api/v1/users", s.adminToken, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req.Username, req.Role = "carol", "coach"
	w = s.do(t, http.MethodPost, "/api/v1/users", s.adminToken, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnconfiguredStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.NewUnconfiguredStore("database.uri is empty")
	authService, err := service.NewAuthService(store.Users, testSecret, 0)
	require.NoError(t, err)
	m, reg := metrics.NewTestManagerAndRegistry()

	router := gin.New()
	SetupRoutes(router, Services{
		Auth:     authService,
		Members:  service.NewMemberService(store.Members, store.Workouts, nil),
		Workouts: service.NewWorkoutService(store.Members, store.Workouts),
		Seed:     service.NewSeedService(store.Members, store.Workouts, nil),
		Coach:    advisor.NewCoachWithClient(nil, "", 0),
		Metrics:  m,
		Registry: reg,
	})

	body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "secret"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database.uri is empty")
}
