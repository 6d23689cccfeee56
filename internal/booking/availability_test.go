package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"atelier-storefront/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type stubRangeRepo struct {
	ranges []domain.DateRange
	err    error
}

func (s *stubRangeRepo) ActiveRanges(_ context.Context, _ string) ([]domain.DateRange, error) {
	return s.ranges, s.err
}

func mustRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	return r
}

func TestBlocked(t *testing.T) {
	booked := []domain.DateRange{
		{Start: day(2024, 6, 10), End: day(2024, 6, 12)},
	}

	cases := []struct {
		name       string
		start, end string
		blocked    bool
	}{
		{"before", "2024-06-01", "2024-06-09", false},
		{"after", "2024-06-13", "2024-06-20", false},
		{"touching start day", "2024-06-05", "2024-06-10", true},
		{"touching end day", "2024-06-12", "2024-06-15", true},
		{"contained", "2024-06-11", "2024-06-11", true},
		{"containing", "2024-06-01", "2024-06-30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Blocked(mustRange(t, tc.start, tc.end), booked)
			if got != tc.blocked {
				t.Fatalf("Blocked(%s..%s) = %v, want %v", tc.start, tc.end, got, tc.blocked)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	repo := &stubRangeRepo{ranges: []domain.DateRange{
		{Start: day(2024, 6, 10), End: day(2024, 6, 12)},
	}}
	svc := New(repo, nil)

	ok, err := svc.Available(context.Background(), "p1", mustRange(t, "2024-06-01", "2024-06-05"))
	if err != nil || !ok {
		t.Fatalf("expected free range, got ok=%v err=%v", ok, err)
	}

	ok, err = svc.Available(context.Background(), "p1", mustRange(t, "2024-06-12", "2024-06-14"))
	if err != nil || ok {
		t.Fatalf("expected blocked range, got ok=%v err=%v", ok, err)
	}
}

func TestAvailableRepoError(t *testing.T) {
	repo := &stubRangeRepo{err: errors.New("boom")}
	svc := New(repo, nil)
	_, err := svc.Available(context.Background(), "p1", mustRange(t, "2024-06-01", "2024-06-05"))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestBookedDatesNeverNil(t *testing.T) {
	svc := New(&stubRangeRepo{}, nil)
	got, err := svc.BookedDates(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

// Blocked must agree with the inclusive interval intersection
// candidateStart <= storedEnd && candidateEnd >= storedStart.
func TestProperty_BlockedMatchesInclusiveOverlap(t *testing.T) {
	properties := gopter.NewProperties(nil)

	genOffsets := gen.IntRange(0, 365)
	genLen := gen.IntRange(0, 30)

	properties.Property("blocked iff intervals intersect inclusively", prop.ForAll(
		func(candOff, candLen, bookedOff, bookedLen int) bool {
			base := day(2024, 1, 1)
			cand := domain.DateRange{
				Start: base.AddDate(0, 0, candOff),
				End:   base.AddDate(0, 0, candOff+candLen),
			}
			booked := domain.DateRange{
				Start: base.AddDate(0, 0, bookedOff),
				End:   base.AddDate(0, 0, bookedOff+bookedLen),
			}

			want := !cand.Start.After(booked.End) && !cand.End.Before(booked.Start)
			return Blocked(cand, []domain.DateRange{booked}) == want
		},
		genOffsets, genLen, genOffsets, genLen,
	))

	properties.TestingRun(t)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
