package service

import (
	"context"
	"neonfit/studio-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(nil, "", 0)
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestLoginAndParseToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	members := NewMemberService(store.Members, store.Workouts, nil)
	auth, err := NewAuthService(store.Users, "test-secret", 0)
	require.NoError(t, err)

	m, err := members.AddMember(ctx, "Alice Chen", domain.MemberOptions{})
	require.NoError(t, err)
	user, err := auth.CreateUser(ctx, "alice", "s3cret", domain.RoleMember, &m.ID)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = auth.CreateUser(ctx, "alice", "other", domain.RoleAdmin, nil)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, err = auth.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	session, err := auth.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, session.Role)
	assert.Equal(t, m.ID, session.MemberID)
	assert.NotEmpty(t, session.Token)

	parsed, err := auth.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, parsed.UserID)
	assert.Equal(t, "alice", parsed.Username)
	assert.Equal(t, m.ID, parsed.MemberID)
	assert.True(t, parsed.CanView(m.ID))
	assert.False(t, parsed.CanView("someone-else"))
}

func TestLogin_LegacySHA256Hash(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	auth, err := NewAuthService(store.Users, "test-secret", 0)
	require.NoError(t, err)

	require.NoError(t, store.Users.Create(ctx, &domain.User{
		Username:     "coach",
		PasswordHash: LegacyPasswordHash("admin123"),
		Role:         domain.RoleAdmin,
	}))

	session, err := auth.Login(ctx, "coach", "admin123")
	require.NoError(t, err)
	assert.True(t, session.IsAdmin())

	_, err = auth.Login(ctx, "coach", "admin124")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestParseToken_Rejects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	issuer, _ := NewAuthService(store.Users, "secret-a", time.Millisecond)
	other, _ := NewAuthService(store.Users, "secret-b", 0)

	_, err := issuer.CreateUser(ctx, "admin", "pw", domain.RoleAdmin, nil)
	require.NoError(t, err)
	session, err := issuer.Login(ctx, "admin", "pw")
	require.NoError(t, err)

	_, err = other.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	time.Sleep(1100 * time.Millisecond)
	_, err = issuer.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	store := newTestStore(t)
	auth, _ := NewAuthService(store.Users, "s", 0)
	_, err := auth.CreateUser(context.Background(), "x", "y", domain.Role("owner"), nil)
	assert.ErrorIs(t, err, ErrInvalidRole)
}
