package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helioscare/clinic-api/internal/config"
	"github.com/helioscare/clinic-api/internal/model"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type fakeUserRepo struct {
	users    map[string]*model.User
	clinicID *uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (r *fakeUserRepo) FirstClinicID(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	return r.clinicID, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWTConfig())

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestLoginAndResolveSession(t *testing.T) {
	repo := newFakeUserRepo()
	clinicID := uuid.New()
	repo.clinicID = &clinicID
	svc := NewService(repo, testJWTConfig())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	session, err := svc.ResolveSession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, repo.users["ana@example.com"].ID, session.UserID)
	assert.Equal(t, "ana@example.com", session.Email)
	require.NotNil(t, session.ClinicID)
	assert.Equal(t, clinicID, *session.ClinicID)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWTConfig())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthenticated, appErr.Code)
}

func TestResolveSessionWithoutClinic(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWTConfig())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	session, err := svc.ResolveSession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Nil(t, session.ClinicID)
}

func TestResolveSessionRejectsGarbageToken(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testJWTConfig())

	_, err := svc.ResolveSession(context.Background(), "not-a-token")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthenticated, appErr.Code)
}

func TestResolveSessionRejectsForgedSignature(t *testing.T) {
	repo := newFakeUserRepo()
	issuer := NewService(repo, config.JWTConfig{Secret: "other-secret", ExpiryHours: 1})
	verifier := NewService(repo, testJWTConfig())

	_, err := issuer.Register(context.Background(), &model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	resp, err := issuer.Login(context.Background(), &model.LoginRequest{
		Email:    "ana@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = verifier.ResolveSession(context.Background(), resp.Token)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthenticated, appErr.Code)
}
