package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/model"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error)
}

type adminRepo struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT * FROM admins WHERE lower(email) = lower($1)
	`, email)
	return HandleNotFound(&admin, err)
}

func (r *adminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT * FROM admins WHERE id = $1
	`, id)
	return HandleNotFound(&admin, err)
}

func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		INSERT INTO admins (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.ID, params.Name, params.Email, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
