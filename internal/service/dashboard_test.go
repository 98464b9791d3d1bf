package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/errors"
)

type paidEntry struct {
	at    time.Time
	cents int64
}

// fakeStore answers the dashboard queries from in-memory records, the same
// way the SQL queries would.
type fakeStore struct {
	created []time.Time
	paid    []paidEntry
	err     error
	queries int
}

func (f *fakeStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	f.queries++
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, c := range f.created {
		if !c.Before(from) && c.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CountCreatedBefore(ctx context.Context, t time.Time) (int, error) {
	f.queries++
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, c := range f.created {
		if c.Before(t) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CountAll(ctx context.Context) (int, error) {
	f.queries++
	if f.err != nil {
		return 0, f.err
	}
	return len(f.created), nil
}

func (f *fakeStore) SumPaidRevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	f.queries++
	if f.err != nil {
		return 0, f.err
	}
	var sum int64
	for _, p := range f.paid {
		if !p.at.Before(from) && p.at.Before(to) {
			sum += p.cents
		}
	}
	return sum, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newService(store DashboardStore, now time.Time) *DashboardService {
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestChangePercentage(t *testing.T) {
	tests := []struct {
		name     string
		previous int64
		current  int64
		expected int
	}{
		{"both zero", 0, 0, 0},
		{"growth from nothing is a full jump", 0, 5, 100},
		{"halving", 10, 5, -50},
		{"doubling", 10, 20, 100},
		{"rounds to nearest", 3, 4, 33},
		{"rounds half up", 8, 12, 50},
		{"total loss", 4, 0, -100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, changePercentage(tc.previous, tc.current))
		})
	}
}

func TestSnapshotCounts(t *testing.T) {
	t.Run("one student per month scenario", func(t *testing.T) {
		store := &fakeStore{
			created: []time.Time{
				date(2024, time.January, 5),
				date(2024, time.February, 10),
			},
		}
		svc := newService(store, date(2024, time.February, 15))

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, snapshot.Students.Current)
		assert.Equal(t, 1, snapshot.Students.Previous)
		assert.Equal(t, 0, snapshot.Students.ChangePercentage)
		assert.Equal(t, 2, snapshot.Students.Total)
		assert.Equal(t, 1, snapshot.Students.TotalLastMonth)
		assert.Equal(t, 100, snapshot.Students.TotalChangePercentage)
	})

	t.Run("empty store yields zeroes", func(t *testing.T) {
		svc := newService(&fakeStore{}, date(2024, time.June, 3))

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)

		assert.Zero(t, snapshot.Students.Current)
		assert.Zero(t, snapshot.Students.Total)
		assert.Zero(t, snapshot.Students.ChangePercentage)
		assert.Zero(t, snapshot.Revenue.Current)
		assert.Zero(t, snapshot.Revenue.ChangePercentage)
	})
}

func TestSnapshotRevenue(t *testing.T) {
	store := &fakeStore{
		paid: []paidEntry{
			{at: date(2024, time.February, 3), cents: 5000},
			{at: date(2024, time.February, 20), cents: 2500},
			{at: date(2024, time.January, 12), cents: 2500},
			{at: date(2023, time.December, 28), cents: 9900}, // outside both windows
		},
	}
	svc := newService(store, date(2024, time.February, 15))

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7500), snapshot.Revenue.Current)
	assert.Equal(t, int64(2500), snapshot.Revenue.Previous)
	assert.Equal(t, 200, snapshot.Revenue.ChangePercentage)
}

func TestDailyHistory(t *testing.T) {
	t.Run("length equals day of month", func(t *testing.T) {
		for _, day := range []int{1, 10, 29} {
			svc := newService(&fakeStore{}, date(2024, time.February, day))

			snapshot, err := svc.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Len(t, snapshot.ChartHistory.ThisMonth, day, "day %d", day)
		}
	})

	t.Run("samples carry per-day new and cumulative totals", func(t *testing.T) {
		store := &fakeStore{
			created: []time.Time{
				date(2024, time.January, 20),
				date(2024, time.February, 1),
				date(2024, time.February, 3),
				date(2024, time.February, 3),
			},
		}
		svc := newService(store, date(2024, time.February, 4))

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)

		points := snapshot.ChartHistory.ThisMonth
		require.Len(t, points, 4)

		assert.Equal(t, HistoryPoint{Date: "2024-02-01", TotalStudents: 2, NewStudents: 1}, points[0])
		assert.Equal(t, HistoryPoint{Date: "2024-02-02", TotalStudents: 2, NewStudents: 0}, points[1])
		assert.Equal(t, HistoryPoint{Date: "2024-02-03", TotalStudents: 4, NewStudents: 2}, points[2])
		assert.Equal(t, HistoryPoint{Date: "2024-02-04", TotalStudents: 4, NewStudents: 0}, points[3])
	})
}

func TestBiweeklyHistory(t *testing.T) {
	store := &fakeStore{
		created: []time.Time{
			date(2024, time.January, 2),
			date(2024, time.March, 18),
		},
	}
	svc := newService(store, date(2024, time.March, 20))

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	points := snapshot.ChartHistory.Last3Months
	require.Len(t, points, 6)

	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, "2024-01-16", points[1].Date)
	assert.Equal(t, "2024-01-31", points[2].Date)
	assert.Equal(t, "2024-02-15", points[3].Date)
	assert.Equal(t, "2024-03-01", points[4].Date)
	assert.Equal(t, "2024-03-16", points[5].Date)

	// First bucket catches the January student.
	assert.Equal(t, 1, points[0].NewStudents)
	assert.Equal(t, 1, points[0].TotalStudents)

	// The in-progress bucket is clamped to today and catches March 18.
	assert.Equal(t, 1, points[5].NewStudents)
	assert.Equal(t, 2, points[5].TotalStudents)
}

func TestMonthlyHistory(t *testing.T) {
	t.Run("always spans thirteen samples", func(t *testing.T) {
		for _, now := range []time.Time{
			date(2024, time.January, 1),
			date(2024, time.February, 29),
			date(2024, time.July, 15),
			date(2024, time.December, 31),
		} {
			svc := newService(&fakeStore{}, now)

			snapshot, err := svc.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Len(t, snapshot.ChartHistory.LastYear, 13, "now %s", now)
		}
	})

	t.Run("first and last samples are month starts", func(t *testing.T) {
		svc := newService(&fakeStore{}, date(2024, time.July, 15))

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)

		points := snapshot.ChartHistory.LastYear
		assert.Equal(t, "2023-07-01", points[0].Date)
		assert.Equal(t, "2024-07-01", points[12].Date)
	})

	t.Run("current month bucket is clamped to today", func(t *testing.T) {
		store := &fakeStore{
			created: []time.Time{
				date(2024, time.July, 10),
				date(2024, time.July, 20), // after "now", must not appear
			},
		}
		svc := newService(store, date(2024, time.July, 15))

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)

		points := snapshot.ChartHistory.LastYear
		last := points[len(points)-1]
		assert.Equal(t, 1, last.NewStudents)
		assert.Equal(t, 1, last.TotalStudents)
	})
}

func TestSnapshotFailure(t *testing.T) {
	t.Run("query error aborts the whole snapshot", func(t *testing.T) {
		store := &fakeStore{err: errors.New("connection reset")}
		svc := newService(store, date(2024, time.February, 15))

		snapshot, err := svc.Snapshot(context.Background())
		assert.Nil(t, snapshot)
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAggregation, appErr.Code)
		assert.Equal(t, 1, store.queries, "must stop at the first failing query")
	})
}
