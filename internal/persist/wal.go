package persist

import (
	"context"
	"fmt"
)

// WALEntry is one economic write-ahead log entry: kill rewards and pickups
// are journaled before the autosave lands so gold cannot be duplicated by a
// crash between grant and save.
type WALEntry struct {
	TxType      string // "kill_reward", "pickup", "mastery"
	CharacterID uint32
	ItemRefID   uint32
	Amount      uint32
	GoldAmount  uint64
}

type WALRepo struct {
	db *DB
}

func NewWALRepo(db *DB) *WALRepo {
	return &WALRepo{db: db}
}

// Write atomically stores a batch of WAL entries in a single transaction.
func (r *WALRepo) Write(ctx context.Context, entries []WALEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("wal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO economic_wal (tx_type, character_id, item_ref_id, amount, gold_amount)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.TxType, e.CharacterID, e.ItemRefID, e.Amount, e.GoldAmount,
		); err != nil {
			return fmt.Errorf("wal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// MarkProcessed marks all WAL entries as processed after a batch flush.
func (r *WALRepo) MarkProcessed(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE economic_wal SET processed = TRUE WHERE processed = FALSE`,
	)
	return err
}
