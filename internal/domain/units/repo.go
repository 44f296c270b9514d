package units

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) ListRates(ctx context.Context) ([]Rate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT from_unit, to_unit, rate
		FROM conversion_rates
		ORDER BY from_unit, to_unit
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rate
	for rows.Next() {
		var cr Rate
		if err := rows.Scan(&cr.From, &cr.To, &cr.Rate); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
