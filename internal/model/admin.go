package model

import (
	"time"
)

type Admin struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateAdminParams struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}
