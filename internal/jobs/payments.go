package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/repository"
)

// PaymentJob periodically flags students whose last confirmed payment is
// older than the grace period, moving them from PAID to OVERDUE so the
// dashboard revenue numbers only count active payers.
type PaymentJob struct {
	studentRepo repository.StudentRepository
	interval    time.Duration
	gracePeriod time.Duration
	done        chan struct{}
}

func NewPaymentJob(studentRepo repository.StudentRepository, interval, gracePeriod time.Duration) *PaymentJob {
	return &PaymentJob{
		studentRepo: studentRepo,
		interval:    interval,
		gracePeriod: gracePeriod,
		done:        make(chan struct{}),
	}
}

func (j *PaymentJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("payment job started")
}

func (j *PaymentJob) Stop() {
	close(j.done)
	log.Info().Msg("payment job stopped")
}

func (j *PaymentJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *PaymentJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.gracePeriod)
	students, err := j.studentRepo.MarkOverduePayments(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to mark overdue payments")
		return
	}
	if len(students) == 0 {
		return
	}

	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	log.Info().Int("count", len(students)).Strs("student_ids", ids).Msg("marked overdue payments")
}
