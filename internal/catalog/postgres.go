package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thali-menu/api/internal/dish"
)

const listDishesSQL = `
SELECT id, name, description, image, diet_type, meal_type, ingredients,
       name_hi, name_bn, category_id, category, dish_type, for_chefit, for_party
FROM dishes
ORDER BY sort_order, id`

const upsertDishSQL = `
INSERT INTO dishes (id, name, description, image, diet_type, meal_type, ingredients,
                    name_hi, name_bn, category_id, category, dish_type, for_chefit, for_party, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    diet_type = EXCLUDED.diet_type,
    meal_type = EXCLUDED.meal_type,
    ingredients = EXCLUDED.ingredients,
    name_hi = EXCLUDED.name_hi,
    name_bn = EXCLUDED.name_bn,
    category_id = EXCLUDED.category_id,
    category = EXCLUDED.category,
    dish_type = EXCLUDED.dish_type,
    for_chefit = EXCLUDED.for_chefit,
    for_party = EXCLUDED.for_party,
    sort_order = EXCLUDED.sort_order`

// Querier is the read side of *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Execer is the write side of *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresProvider reads the catalog from the dishes table.
type PostgresProvider struct {
	db Querier
}

func NewPostgresProvider(db Querier) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// Dishes loads every row in display order and normalizes it.
func (p *PostgresProvider) Dishes(ctx context.Context) ([]dish.Dish, error) {
	rows, err := p.db.Query(ctx, listDishesSQL)
	if err != nil {
		return nil, fmt.Errorf("query dishes: %w", err)
	}
	raw, err := pgx.CollectRows(rows, scanRawDish)
	if err != nil {
		return nil, fmt.Errorf("scan dishes: %w", err)
	}
	dishes := dish.NormalizeAll(raw)
	warnDuplicates("postgres", dishes)
	return dishes, nil
}

func scanRawDish(row pgx.CollectableRow) (dish.RawDish, error) {
	var (
		r          dish.RawDish
		categoryID *int64
	)
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.Image, &r.DietType, &r.MealType, &r.Ingredients,
		&r.NameHi, &r.NameBn, &categoryID, &r.Category, &r.DishType, &r.ForChefit, &r.ForParty,
	)
	if err != nil {
		return dish.RawDish{}, err
	}
	if categoryID != nil {
		r.CategoryID = *categoryID
	}
	return r, nil
}

// UpsertDishes writes dishes in their given order; position becomes
// sort_order. Run it inside a transaction to make the load atomic.
func UpsertDishes(ctx context.Context, db Execer, dishes []dish.Dish) error {
	for i, d := range dishes {
		var image *string
		if d.Image != dish.PlaceholderImage {
			image = &d.Image
		}
		var categoryID *int64
		if d.CategoryID != 0 {
			categoryID = &d.CategoryID
		}
		ingredients := d.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		_, err := db.Exec(ctx, upsertDishSQL,
			d.ID, d.Name, d.Description, image, string(d.DietType), string(d.MealCategory), ingredients,
			d.NameHi, d.NameBn, categoryID, d.Category, d.DishType, d.ForChefit, d.ForParty, i,
		)
		if err != nil {
			return fmt.Errorf("upsert dish %d: %w", d.ID, err)
		}
	}
	return nil
}

// NewPool opens a pgx pool sized for a read-mostly catalog and verifies it.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
