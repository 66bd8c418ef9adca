package identity

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photomarket/internal/database"
	"photomarket/internal/logger"
	"photomarket/internal/pkg/jwt"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:identity_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func newTestService(t *testing.T) (*Service, *jwt.Service) {
	t.Helper()
	tokens := jwt.New("test-secret", time.Hour)
	return NewService(NewRepository(newTestDB(t)), tokens), tokens
}

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	svc, tokens := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{
		Email:    "  Sara@Example.com ",
		Password: "password123",
		Name:     "Sara",
		Role:     RoleCreative,
		Country:  "Tunisia",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "sara@example.com", res.User.Email)
	assert.NotEqual(t, "password123", res.User.PasswordHash)

	claims, err := tokens.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, string(RoleCreative), claims.Role)
}

func TestRegister_RejectsDuplicateEmailAndAdminRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "a@example.com", Password: "password123", Name: "A", Role: RoleClient}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	req.Email = "A@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = svc.Register(ctx, RegisterRequest{Email: "b@example.com", Password: "password123", Name: "B", Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "c@example.com", Password: "password123", Name: "C", Role: RoleClient})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginRequest{Email: "C@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Login(ctx, LoginRequest{Email: "c@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "missing@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdmin_IsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seed := AdminSeed{Email: "admin@example.com", Password: "admin-pass", Name: "Admin", Country: "Tunisia"}

	created, err := svc.EnsureAdmin(ctx, seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, seed)
	require.NoError(t, err)
	assert.False(t, created)

	res, err := svc.Login(ctx, LoginRequest{Email: seed.Email, Password: seed.Password})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, res.User.Role)
}

func TestSeedVerified(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, jwt.New("test-secret", time.Hour))
	ctx := context.Background()

	u := &User{Email: "v@example.com", PasswordHash: "x", Name: "V", Role: RoleCreative, SeedVerified: true}
	require.NoError(t, repo.Create(ctx, u))

	ok, err := svc.SeedVerified(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.SeedVerified(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}
