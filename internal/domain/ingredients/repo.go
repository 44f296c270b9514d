package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const ingredientCols = `id, name, quantity, unit, cost_per_unit, created_at, updated_at`

func scanIngredient(row pgx.Row) (*Ingredient, error) {
	var ing Ingredient
	err := row.Scan(
		&ing.ID,
		&ing.Name,
		&ing.Quantity,
		&ing.Unit,
		&ing.CostPerUnit,
		&ing.CreatedAt,
		&ing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ing, nil
}

// FindByName looks an ingredient up case-insensitively. Duplicate
// case-folded names are not prevented by the schema; the lowest id wins.
func (r *Repo) FindByName(ctx context.Context, name string) (*Ingredient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ingredientCols+`
		FROM ingredients
		WHERE LOWER(name) = LOWER($1)
		ORDER BY id
		LIMIT 1
	`, strings.TrimSpace(name))
	return scanIngredient(row)
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Ingredient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ingredientCols+`
		FROM ingredients
		WHERE id = $1
	`, strings.TrimSpace(id))
	return scanIngredient(row)
}

func (r *Repo) Create(ctx context.Context, ing Ingredient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ingredients (id, name, quantity, unit, cost_per_unit)
		VALUES ($1,$2,$3,$4,$5)
	`, ing.ID, ing.Name, ing.Quantity, ing.Unit, ing.CostPerUnit)
	return err
}

// Update applies a partial update; nil patch fields keep their stored
// value. updated_at is stamped on every write.
func (r *Repo) Update(ctx context.Context, id string, p Patch) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ingredients SET
			quantity      = COALESCE($2, quantity),
			cost_per_unit = COALESCE($3, cost_per_unit),
			updated_at    = now()
		WHERE id = $1
	`, id, p.Quantity, p.CostPerUnit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ingredient %s: no row updated", id)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ingredientCols+`
		FROM ingredients
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(
			&ing.ID,
			&ing.Name,
			&ing.Quantity,
			&ing.Unit,
			&ing.CostPerUnit,
			&ing.CreatedAt,
			&ing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (r *Repo) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (ingredient_id, field, old_value, new_value, actor_id)
		VALUES ($1,$2,$3,$4,$5)
	`, e.IngredientID, string(e.Field), e.OldValue, e.NewValue, e.ActorID)
	return err
}

// ReadCounter returns "" with no error when the key has never been
// provisioned; the allocator treats that as a configuration error.
func (r *Repo) ReadCounter(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM counters WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *Repo) WriteCounter(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO counters (key, value)
		VALUES ($1,$2)
		ON CONFLICT (key) DO UPDATE SET value = $2
	`, key, value)
	return err
}
