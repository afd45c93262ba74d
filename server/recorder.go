package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"holdem-arena/server/engine"
	"holdem-arena/server/store"
)

// handLog is the subset of the store the recorder writes to.
type handLog interface {
	CreateHand(ctx context.Context, id string, dealer engine.Seat, cfg engine.Config, stacks [2]int) error
	InsertActionLog(ctx context.Context, handID string, seq int, rec engine.Record, pot, curBet int, board []engine.Card) error
	CompleteHand(ctx context.Context, handID string, res engine.Result) error
}

var _ handLog = (*store.DB)(nil)

// recorder is an engine.Sink that writes every hand to the store. Write
// failures are logged and never interrupt play.
type recorder struct {
	db     handLog
	cfg    engine.Config
	logger *log.Logger

	hand string
	seq  int
}

func newRecorder(db handLog, cfg engine.Config, logger *log.Logger) *recorder {
	return &recorder{db: db, cfg: cfg, logger: logger.WithPrefix("store")}
}

func (r *recorder) Render(v engine.View) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch v.Event {
	case engine.EventDeal:
		r.hand, r.seq = v.HandID, 0
		if err := r.db.CreateHand(ctx, v.HandID, v.Dealer, r.cfg, v.Start); err != nil {
			r.logger.Error("create hand", "id", v.HandID, "err", err)
		}
	case engine.EventAction:
		if v.Last == nil || v.HandID != r.hand {
			return
		}
		r.seq++
		// the action view is taken before any street is dealt or pot paid
		if err := r.db.InsertActionLog(ctx, v.HandID, r.seq, *v.Last, v.Pot, v.CurBet, v.Board); err != nil {
			r.logger.Error("insert action", "id", v.HandID, "seq", r.seq, "err", err)
		}
	case engine.EventSettle:
		if err := r.db.CompleteHand(ctx, v.HandID, *v.Result); err != nil {
			r.logger.Error("complete hand", "id", v.HandID, "err", err)
		}
	}
}
