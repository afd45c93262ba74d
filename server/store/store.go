package store

import (
	"context"
	"embed"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"holdem-arena/server/engine"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(ctx context.Context, dsn string) (*DB, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close()                         { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Write helpers
------------------------------*/

// CreateHand inserts the hand row. stacks are the stacks before blinds.
func (db *DB) CreateHand(ctx context.Context, id string, dealer engine.Seat, cfg engine.Config, stacks [2]int) error {
	_, err := db.Exec(ctx, `
		INSERT INTO hands(id, dealer, sb, bb, stack_a, stack_b)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING
	`, id, dealer.String(), cfg.SB, cfg.BB, stacks[0], stacks[1])
	return err
}

// InsertActionLog records one applied action with the pot, bet and board as
// they stood once it was applied, before any street was dealt.
func (db *DB) InsertActionLog(
	ctx context.Context,
	handID string,
	seq int,
	rec engine.Record,
	pot, curBet int,
	board []engine.Card,
) error {
	var amt any
	if rec.Amount > 0 {
		amt = rec.Amount
	}
	_, err := db.Exec(ctx, `
        INSERT INTO action_logs(
            hand_id, seq, stage, seat, action, amount,
            pot, cur_bet, board
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `,
		handID, seq, rec.Stage.String(), rec.Seat.String(), string(rec.Kind), amt,
		pot, curBet, codes(board),
	)
	return err
}

// CompleteHand stamps the settlement on the hand row.
func (db *DB) CompleteHand(ctx context.Context, handID string, res engine.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
		UPDATE hands
		   SET ended_at = now(),
		       winner = $2,
		       pot = $3,
		       result = $4
		 WHERE id = $1
	`, handID, Winner(res), res.Pot, raw)
	return err
}

// Winner is "A", "B" or "split".
func Winner(res engine.Result) string {
	if res.Split() {
		return "split"
	}
	if len(res.Winners) == 0 {
		return ""
	}
	return res.Winners[0].String()
}

func codes(cs []engine.Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Code()
	}
	return out
}
