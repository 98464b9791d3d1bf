package service

import (
	"context"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/auth"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/repository"
)

type AuthService struct {
	adminRepo repository.AdminRepository
	codec     auth.Codec
}

func NewAuthService(adminRepo repository.AdminRepository, codec auth.Codec) *AuthService {
	return &AuthService{adminRepo: adminRepo, codec: codec}
}

// Login verifies the credentials and returns a signed session token.
// An empty token with a nil error means invalid credentials; the caller
// must not reveal whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if admin == nil {
		// Burn a hash comparison so unknown emails take as long as
		// wrong passwords.
		auth.CompareDummy(password)
		return "", nil
	}

	if !auth.ComparePassword(password, admin.PasswordHash) {
		return "", nil
	}

	return s.codec.Sign(auth.Identity{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
	})
}
