package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/model"
)

// StudentRepository exposes the counting and summation queries the dashboard
// needs, plus the payment maintenance update. Row-level CRUD for students
// lives behind the generic admin API and is not part of this service.
type StudentRepository interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountCreatedBefore(ctx context.Context, t time.Time) (int, error)
	CountAll(ctx context.Context) (int, error)
	SumPaidRevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
	MarkOverduePayments(ctx context.Context, before time.Time) ([]model.Student, error)
}

type studentRepo struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM students
		WHERE created_at >= $1 AND created_at < $2
	`, from, to)
	return count, err
}

func (r *studentRepo) CountCreatedBefore(ctx context.Context, t time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM students WHERE created_at < $1
	`, t)
	return count, err
}

func (r *studentRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students`)
	return count, err
}

func (r *studentRepo) SumPaidRevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var sum int64
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(p.price_cents), 0)
		FROM students s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.payment_status = $1
		AND s.payment_status_updated_at >= $2
		AND s.payment_status_updated_at < $3
	`, model.PaymentStatusPaid, from, to)
	return sum, err
}

func (r *studentRepo) MarkOverduePayments(ctx context.Context, before time.Time) ([]model.Student, error) {
	var students []model.Student
	err := r.db.SelectContext(ctx, &students, `
		UPDATE students SET
			payment_status = $1,
			updated_at = NOW()
		WHERE payment_status = $2
		AND payment_status_updated_at < $3
		RETURNING *
	`, model.PaymentStatusOverdue, model.PaymentStatusPaid, before)
	if err != nil {
		return nil, err
	}
	return students, nil
}
