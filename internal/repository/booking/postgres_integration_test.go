package booking

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func integrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE booking_lines, bookings, order_lines, orders, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertRentalProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, daily_rental_price_cents, for_sale, for_rent)
VALUES ('Arche florale', 10000, FALSE, TRUE)
RETURNING id::text`).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func mustRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	return r
}

func pendingInput(productID, sessionID string, r domain.DateRange) CreateBookingInput {
	return CreateBookingInput{
		SessionID:     sessionID,
		CustomerEmail: "client@example.com",
		Currency:      "EUR",
		SubtotalCents: 20000,
		TotalCents:    20000,
		Lines: []CreateBookingLine{{
			ProductID:       productID,
			ProductName:     "Arche florale",
			Quantity:        2,
			DailyPriceCents: 10000,
			Range:           r,
			Days:            r.Days(),
			TotalCents:      20000,
		}},
	}
}

func TestOverlappingBookingRejected_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	productID := insertRentalProduct(ctx, t, pool)

	repo := NewPostgres(pool, zap.NewNop())

	first, err := repo.CreatePending(ctx, pendingInput(productID, "sess-a", mustRange(t, "2024-06-01", "2024-06-03")))
	if err != nil {
		t.Fatalf("create first booking: %v", err)
	}
	if first.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", first.Status)
	}

	// Overlap on the shared endpoint: inclusive bounds must collide.
	_, err = repo.CreatePending(ctx, pendingInput(productID, "sess-b", mustRange(t, "2024-06-03", "2024-06-05")))
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}

	// A disjoint range still goes through.
	if _, err := repo.CreatePending(ctx, pendingInput(productID, "sess-c", mustRange(t, "2024-06-04", "2024-06-06"))); err != nil {
		t.Fatalf("create disjoint booking: %v", err)
	}
}

func TestMarkConfirmedTransitionsOnce_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	productID := insertRentalProduct(ctx, t, pool)

	repo := NewPostgres(pool, zap.NewNop())
	if _, err := repo.CreatePending(ctx, pendingInput(productID, "sess-a", mustRange(t, "2024-06-01", "2024-06-03"))); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	bk, transitioned, err := repo.MarkConfirmed(ctx, "sess-a", "FA-TEST-1")
	if err != nil {
		t.Fatalf("mark confirmed: %v", err)
	}
	if !transitioned || bk.Status != domain.StatusConfirmed || bk.InvoiceNumber != "FA-TEST-1" {
		t.Fatalf("unexpected booking after confirm: %+v transitioned=%v", bk, transitioned)
	}

	// Webhook replay: record found, nothing changes.
	bk, transitioned, err = repo.MarkConfirmed(ctx, "sess-a", "FA-TEST-2")
	if err != nil {
		t.Fatalf("mark confirmed replay: %v", err)
	}
	if transitioned {
		t.Fatal("replay must not transition again")
	}
	if bk.InvoiceNumber != "FA-TEST-1" {
		t.Fatalf("invoice overwritten on replay: %q", bk.InvoiceNumber)
	}
}

func TestReleaseStaleFreesSlot_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	productID := insertRentalProduct(ctx, t, pool)

	repo := NewPostgres(pool, zap.NewNop())
	r := mustRange(t, "2024-06-01", "2024-06-03")
	if _, err := repo.CreatePending(ctx, pendingInput(productID, "sess-a", r)); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// Backdate the pending booking so it counts as abandoned.
	if _, err := pool.Exec(ctx, `UPDATE bookings SET created_at = now() - interval '2 days'`); err != nil {
		t.Fatalf("backdate booking: %v", err)
	}

	released, err := repo.ReleaseStale(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("release stale: %v", err)
	}
	if released == 0 {
		t.Fatal("expected at least one released line")
	}

	ranges, err := repo.ActiveRanges(ctx, productID)
	if err != nil {
		t.Fatalf("active ranges: %v", err)
	}
	if len(ranges) != 0 {
		t.Fatalf("slot still held after release: %v", ranges)
	}

	// The freed slot can be booked again.
	if _, err := repo.CreatePending(ctx, pendingInput(productID, "sess-b", r)); err != nil {
		t.Fatalf("rebook freed slot: %v", err)
	}
}
