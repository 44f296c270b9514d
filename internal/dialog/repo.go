package dialog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Get returns the chat's current mode; a chat with no row is idle.
func (r *Repo) Get(ctx context.Context, chatID int64) (*Item, error) {
	var state string
	err := r.pool.
		QueryRow(ctx, `SELECT state FROM dialog_states WHERE chat_id = $1`, chatID).
		Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Item{ChatID: chatID, State: StateIdle}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Item{ChatID: chatID, State: State(state)}, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, state State) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dialog_states (chat_id, state, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (chat_id) DO UPDATE SET
		  state=$2, updated_at=now()
	`, chatID, string(state))
	return err
}

func (r *Repo) Reset(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM dialog_states WHERE chat_id = $1`, chatID)
	return err
}
