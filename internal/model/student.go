package model

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

type Student struct {
	ID                     string        `db:"id" json:"id"`
	Name                   string        `db:"name" json:"name"`
	Email                  string        `db:"email" json:"email"`
	PlanID                 *string       `db:"plan_id" json:"planId,omitempty"`
	PaymentStatus          PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PaymentStatusUpdatedAt time.Time     `db:"payment_status_updated_at" json:"paymentStatusUpdatedAt"`
	CreatedAt              time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time     `db:"updated_at" json:"updatedAt"`
}

type Plan struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PriceCents   int64     `db:"price_cents" json:"priceCents"`
	DurationDays int       `db:"duration_days" json:"durationDays"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
