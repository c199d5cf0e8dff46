package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"codequiz/internal/common"
	"codequiz/internal/common/security"
	"codequiz/internal/domain/model"
	"codequiz/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byUsername map[string]*model.User
	createErr  error
	created    []*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *user
	f.byUsername[user.Username] = &copied
	f.created = append(f.created, &copied)
	return nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.byUsername {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, user := range f.byUsername {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Duration{}}
}

func (f *fakeRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupAuth(t *testing.T) (*AuthService, *fakeUserRepo, *fakeRevoker) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:       []byte("test-secret"),
		JWTAlgorithm: "HS256",
		JWTExp:       30 * time.Minute,
	}
	security.InitJWT()

	repo := newFakeUserRepo()
	revoker := newFakeRevoker()
	return NewAuthService(repo, revoker, testLogger()), repo, revoker
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "pw1234",
		PasswordConfirm: "pw1234",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, repo, _ := setupAuth(t)

	require.NoError(t, svc.Register(context.Background(), validRegistration()))

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "pw1234", created.HashedPassword, "password must not be stored in plaintext")
	assert.True(t, security.CheckPasswordHash("pw1234", created.HashedPassword))

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.TokenID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Empty(t, resp.User.HashedPassword)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), resp.ExpiresAt, 5*time.Second)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, repo, _ := setupAuth(t)
	repo.byUsername["alice"] = &model.User{ID: "u1", Username: "alice"}

	err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Empty(t, repo.created, "no record may be created for a duplicate username")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, repo, _ := setupAuth(t)

	req := validRegistration()
	req.PasswordConfirm = "different"
	err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrPasswordsMismatch)
	assert.Empty(t, repo.created)
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc, _, _ := setupAuth(t)

	req := validRegistration()
	req.Email = "not-an-email"
	err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegisterConstraintRace(t *testing.T) {
	// The pre-check passes but the insert hits the unique constraint, the
	// concurrent-registration case the store arbitrates.
	svc, repo, _ := setupAuth(t)
	repo.createErr = fmt.Errorf("duplicate: %w", common.ErrConflict)

	err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginUnknownUserAndWrongPassword(t *testing.T) {
	svc, repo, _ := setupAuth(t)
	hash, err := security.HashPassword("pw1234")
	require.NoError(t, err)
	repo.byUsername["alice"] = &model.User{ID: "u1", Username: "alice", HashedPassword: hash}

	_, unknownErr := svc.Login(context.Background(), LoginRequest{Username: "bob", Password: "pw1234"})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "nope"})

	assert.ErrorIs(t, unknownErr, common.ErrUnauthorized)
	assert.ErrorIs(t, wrongErr, common.ErrUnauthorized)
	// Identical from the caller's perspective; no username probing.
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogoutRevokesRemainingLifetime(t *testing.T) {
	svc, _, revoker := setupAuth(t)

	expiresAt := time.Now().Add(10 * time.Minute)
	require.NoError(t, svc.Logout(context.Background(), "jti-1", expiresAt))

	ttl, ok := revoker.revoked["jti-1"]
	require.True(t, ok)
	assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)
}

func TestCurrentUser(t *testing.T) {
	svc, repo, _ := setupAuth(t)
	repo.byUsername["alice"] = &model.User{ID: "u1", Username: "alice", Email: "a@x.com", HashedPassword: "hash"}

	user, err := svc.CurrentUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Empty(t, user.HashedPassword)

	_, err = svc.CurrentUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
