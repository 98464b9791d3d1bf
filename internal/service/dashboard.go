package service

import (
	"context"
	"math"
	"time"

	apperrors "github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/errors"
)

const dateLayout = "2006-01-02"

// DashboardStore is the counting/summation capability the aggregator needs
// from the student storage. Revenue sums are in cents.
type DashboardStore interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountCreatedBefore(ctx context.Context, t time.Time) (int, error)
	CountAll(ctx context.Context) (int, error)
	SumPaidRevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type StudentMetrics struct {
	Current               int `json:"current"`
	Previous              int `json:"previous"`
	Total                 int `json:"total"`
	TotalLastMonth        int `json:"totalLastMonth"`
	ChangePercentage      int `json:"changePercentage"`
	TotalChangePercentage int `json:"totalChangePercentage"`
}

type RevenueMetrics struct {
	Current          int64 `json:"current"`
	Previous         int64 `json:"previous"`
	ChangePercentage int   `json:"changePercentage"`
}

type HistoryPoint struct {
	Date          string `json:"date"`
	TotalStudents int    `json:"totalStudents"`
	NewStudents   int    `json:"newStudents"`
}

type ChartHistory struct {
	ThisMonth   []HistoryPoint `json:"thisMonth"`
	Last3Months []HistoryPoint `json:"last3Months"`
	LastYear    []HistoryPoint `json:"lastYear"`
}

type DashboardSnapshot struct {
	Students     StudentMetrics `json:"students"`
	Revenue      RevenueMetrics `json:"revenue"`
	ChartHistory ChartHistory   `json:"chartHistory"`
}

// DashboardService computes growth and revenue metrics from the student
// store. It keeps no state of its own; a snapshot is a pure function of the
// wall clock and the store contents.
type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Snapshot computes the full dashboard payload. The current time is
// captured once so every window boundary agrees even if the queries take a
// while. Any query failure aborts the whole snapshot; no partial results.
func (s *DashboardService) Snapshot(ctx context.Context) (*DashboardSnapshot, error) {
	now := s.now()
	thisMonthStart := monthStart(now)
	nextMonthStart := thisMonthStart.AddDate(0, 1, 0)
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	current, err := s.store.CountCreatedBetween(ctx, thisMonthStart, nextMonthStart)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	previous, err := s.store.CountCreatedBetween(ctx, lastMonthStart, thisMonthStart)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	total, err := s.store.CountAll(ctx)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	totalLastMonth, err := s.store.CountCreatedBefore(ctx, thisMonthStart)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	currentRevenue, err := s.store.SumPaidRevenueBetween(ctx, thisMonthStart, nextMonthStart)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	previousRevenue, err := s.store.SumPaidRevenueBetween(ctx, lastMonthStart, thisMonthStart)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	thisMonth, err := s.dailyHistory(ctx, now)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	last3Months, err := s.biweeklyHistory(ctx, now)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}
	lastYear, err := s.monthlyHistory(ctx, now)
	if err != nil {
		return nil, apperrors.Aggregation(err)
	}

	return &DashboardSnapshot{
		Students: StudentMetrics{
			Current:               current,
			Previous:              previous,
			Total:                 total,
			TotalLastMonth:        totalLastMonth,
			ChangePercentage:      changePercentage(int64(previous), int64(current)),
			TotalChangePercentage: changePercentage(int64(totalLastMonth), int64(total)),
		},
		Revenue: RevenueMetrics{
			Current:          currentRevenue,
			Previous:         previousRevenue,
			ChangePercentage: changePercentage(previousRevenue, currentRevenue),
		},
		ChartHistory: ChartHistory{
			ThisMonth:   thisMonth,
			Last3Months: last3Months,
			LastYear:    lastYear,
		},
	}, nil
}

// dailyHistory produces one sample per calendar day from the 1st of the
// current month through today.
func (s *DashboardService) dailyHistory(ctx context.Context, now time.Time) ([]HistoryPoint, error) {
	today := dayStart(now)

	var points []HistoryPoint
	for day := monthStart(now); !day.After(today); day = day.AddDate(0, 0, 1) {
		point, err := s.bucketPoint(ctx, day, day)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// biweeklyHistory produces 15-day buckets starting from the 1st of the
// month two months before the current one, stepping until passing today.
// A bucket still in progress is clamped to today.
func (s *DashboardService) biweeklyHistory(ctx context.Context, now time.Time) ([]HistoryPoint, error) {
	today := dayStart(now)
	start := monthStart(now).AddDate(0, -2, 0)

	var points []HistoryPoint
	for bucket := start; !bucket.After(today); bucket = bucket.AddDate(0, 0, 15) {
		end := bucket.AddDate(0, 0, 14)
		if end.After(today) {
			end = today
		}
		point, err := s.bucketPoint(ctx, bucket, end)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// monthlyHistory produces one sample per calendar month over the last year:
// twelve months back through the current month, 13 samples total. The
// current month is clamped to today.
func (s *DashboardService) monthlyHistory(ctx context.Context, now time.Time) ([]HistoryPoint, error) {
	today := dayStart(now)
	start := monthStart(now).AddDate(0, -12, 0)

	var points []HistoryPoint
	for month := start; !month.After(today); month = month.AddDate(0, 1, 0) {
		end := month.AddDate(0, 1, -1)
		if end.After(today) {
			end = today
		}
		point, err := s.bucketPoint(ctx, month, end)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// bucketPoint samples the inclusive day range [start, end]: newStudents is
// the count created inside the range, totalStudents the cumulative count
// through its end.
func (s *DashboardService) bucketPoint(ctx context.Context, start, end time.Time) (HistoryPoint, error) {
	cutoff := end.AddDate(0, 0, 1)

	newStudents, err := s.store.CountCreatedBetween(ctx, start, cutoff)
	if err != nil {
		return HistoryPoint{}, err
	}

	totalStudents, err := s.store.CountCreatedBefore(ctx, cutoff)
	if err != nil {
		return HistoryPoint{}, err
	}

	return HistoryPoint{
		Date:          start.Format(dateLayout),
		TotalStudents: totalStudents,
		NewStudents:   newStudents,
	}, nil
}

// changePercentage is the growth delta between two period values. A previous
// period of zero collapses to a flat 100% when anything grew and 0%
// otherwise, so the dashboard never divides by zero.
func changePercentage(previous, current int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
