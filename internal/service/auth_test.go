package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/auth"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/model"
)

type mockAdminRepo struct {
	findByEmailFunc func(ctx context.Context, email string) (*model.Admin, error)
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	return nil, nil
}

func (m *mockAdminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	return nil, nil
}

func TestAuthServiceLogin(t *testing.T) {
	codec := auth.NewJWTCodec("auth-service-test-secret-0123456789abcd", 7*24*time.Hour)

	hash, err := auth.HashPassword("s3cure-password")
	require.NoError(t, err)

	admin := &model.Admin{
		ID:           "adm-1",
		Name:         "Gabriel",
		Email:        "gabriel@fitplan.test",
		PasswordHash: hash,
	}

	repo := &mockAdminRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.Admin, error) {
			if email == admin.Email {
				return admin, nil
			}
			return nil, nil
		},
	}

	svc := NewAuthService(repo, codec)

	t.Run("valid credentials return verifiable token", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "gabriel@fitplan.test", "s3cure-password")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		identity := codec.Verify(token)
		require.NotNil(t, identity)
		assert.Equal(t, "adm-1", identity.ID)
		assert.Equal(t, "Gabriel", identity.Name)
		assert.Equal(t, "gabriel@fitplan.test", identity.Email)
	})

	t.Run("wrong password returns empty token", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "gabriel@fitplan.test", "wrong")
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("unknown email returns empty token, not an error", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "nobody@fitplan.test", "s3cure-password")
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		failing := &mockAdminRepo{
			findByEmailFunc: func(ctx context.Context, email string) (*model.Admin, error) {
				return nil, errors.New("database down")
			},
		}
		svc := NewAuthService(failing, codec)

		token, err := svc.Login(context.Background(), "gabriel@fitplan.test", "s3cure-password")
		assert.Error(t, err)
		assert.Empty(t, token)
	})
}
