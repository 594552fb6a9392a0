package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
)

type fakeUserRepo struct {
	users map[id.ID]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[id.ID]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tenantID id.ID, email string) (*User, error) {
	for _, u := range r.users {
		if u.TenantID == tenantID && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) Exists(ctx context.Context, tenantID id.ID, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, tenantID, email)
	return err == nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, tenantID id.ID) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, tenantID id.ID) (int, error) {
	users, _ := r.List(ctx, tenantID)
	return len(users), nil
}

func setup() (*Service, *fakeUserRepo, id.ID, context.Context) {
	tenantID := id.New()
	repo := newFakeUserRepo()
	svc := NewService(repo, NewJWTService(DefaultJWTConfig("test-secret")), DefaultServiceConfig(), clock.At("2025-06-10"))
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New(),
		TenantID: tenantID,
		Role:     appctx.RoleTenantAdmin,
	})
	return svc, repo, tenantID, ctx
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tenantID, ctx := setup()

	u, err := svc.Register(ctx, RegisterRequest{
		Email:    "seller@example.com",
		Password: "correct-horse",
		Role:     appctx.RoleSeller,
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID, u.TenantID)
	assert.True(t, u.IsActive)
	// Plaintext never stored.
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	token, logged, err := svc.Login(ctx, tenantID, Credentials{
		Email:    "seller@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	svc, repo, _, ctx := setup()

	_, err := svc.Register(ctx, RegisterRequest{Email: "x@example.com", Password: "short", Role: appctx.RoleSeller})
	require.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	svc, _, _, ctx := setup()

	req := RegisterRequest{Email: "dup@example.com", Password: "long-enough", Role: appctx.RoleSeller}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, tenantID, ctx := setup()

	_, err := svc.Register(ctx, RegisterRequest{Email: "u@example.com", Password: "long-enough", Role: appctx.RoleSeller})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, tenantID, Credentials{Email: "u@example.com", Password: "wrong-password"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, repo, tenantID, ctx := setup()

	u, err := svc.Register(ctx, RegisterRequest{Email: "u@example.com", Password: "long-enough", Role: appctx.RoleSeller})
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, repo.Update(ctx, u))

	_, _, err = svc.Login(ctx, tenantID, Credentials{Email: "u@example.com", Password: "long-enough"})
	require.Error(t, err)
}

func TestLogin_WrongTenantIsUnauthorized(t *testing.T) {
	svc, _, _, ctx := setup()

	_, err := svc.Register(ctx, RegisterRequest{Email: "u@example.com", Password: "long-enough", Role: appctx.RoleSeller})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, id.New(), Credentials{Email: "u@example.com", Password: "long-enough"})
	require.Error(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	branchID := id.New()
	u := &User{
		ID:       id.New(),
		TenantID: id.New(),
		BranchID: &branchID,
		Email:    "seller@example.com",
		Role:     appctx.RoleSeller,
	}

	token, expiresAt, err := jwtSvc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	uc, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uc.UserID)
	assert.Equal(t, u.TenantID, uc.TenantID)
	assert.Equal(t, u.Email, uc.Email)
	assert.Equal(t, u.Role, uc.Role)
	require.NotNil(t, uc.BranchID)
	assert.Equal(t, branchID, *uc.BranchID)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(&User{ID: id.New(), TenantID: id.New(), Role: appctx.RoleSeller})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_GarbageTokenRejected(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	_, err := jwtSvc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
