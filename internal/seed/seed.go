package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Fixed IDs keep the seed idempotent: reruns update in place.
const (
	vaseID   = "0b8f6c52-1111-4a7a-9a10-000000000001"
	plaqueID = "0b8f6c52-1111-4a7a-9a10-000000000002"
	archeID  = "0b8f6c52-1111-4a7a-9a10-000000000003"
	bannerID = "0b8f6c52-2222-4a7a-9a10-000000000001"
)

type productSeed struct {
	ID           string
	Name         string
	Description  string
	PriceCents   int64
	DailyCents   int64
	Stock        int
	ForSale      bool
	ForRent      bool
	Customizable bool
	OptionsJSON  string
}

// Apply inserts demo data for manual testing. Idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			ID:          vaseID,
			Name:        "Vase céramique",
			Description: "Vase artisanal tourné à la main",
			PriceCents:  2500,
			Stock:       12,
			ForSale:     true,
			OptionsJSON: "[]",
		},
		{
			ID:           plaqueID,
			Name:         "Plaque personnalisée",
			Description:  "Plaque gravée sur mesure",
			PriceCents:   4000,
			Stock:        30,
			ForSale:      true,
			Customizable: true,
			OptionsJSON: `[
  {"name":"Texte gravé","kind":"text","required":true},
  {"name":"Couleur","kind":"dropdown","choices":[{"label":"Or","priceCents":0},{"label":"Argent","priceCents":0}]}
]`,
		},
		{
			ID:          archeID,
			Name:        "Arche florale",
			Description: "Arche décorée pour cérémonies",
			DailyCents:  10000,
			ForRent:     true,
			OptionsJSON: "[]",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	if err := upsertPromo(ctx, pool); err != nil {
		return fmt.Errorf("upsert promo: %w", err)
	}
	if err := upsertAnnouncement(ctx, pool); err != nil {
		return fmt.Errorf("upsert announcement: %w", err)
	}
	if err := ensureAdmin(ctx, pool); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, name, description, price_cents, daily_rental_price_cents,
                      stock_quantity, for_sale, for_rent, customizable, options)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    daily_rental_price_cents = EXCLUDED.daily_rental_price_cents,
    stock_quantity = EXCLUDED.stock_quantity,
    for_sale = EXCLUDED.for_sale,
    for_rent = EXCLUDED.for_rent,
    customizable = EXCLUDED.customizable,
    options = EXCLUDED.options
`
	_, err := pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.PriceCents, p.DailyCents,
		p.Stock, p.ForSale, p.ForRent, p.Customizable, p.OptionsJSON)
	return err
}

func upsertPromo(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO promo_codes (code, discount_percent, apply_to_all, valid_from, valid_until)
VALUES ('BIENVENUE10', 10, TRUE, now(), now() + interval '1 year')
ON CONFLICT (code) DO NOTHING
`
	_, err := pool.Exec(ctx, q)
	return err
}

func upsertAnnouncement(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO announcements (id, message, active)
VALUES ($1, 'Livraison offerte en atelier toute l''année', TRUE)
ON CONFLICT (id) DO UPDATE SET message = EXCLUDED.message
`
	_, err := pool.Exec(ctx, q, bannerID)
	return err
}

// ensureAdmin creates the back-office account from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD. Skipped when either is unset.
func ensureAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO admin_users (email, password_hash)
VALUES (lower($1), $2)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}
