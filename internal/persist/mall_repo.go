package persist

import (
	"context"
	"time"
)

// MallKeyTTL is how long an issued item-mall key stays valid.
const MallKeyTTL = 15 * time.Minute

// MallRepo manages the short-lived item-mall access keys.
type MallRepo struct {
	db       *DB
	serverID uint16
}

func NewMallRepo(db *DB, serverID uint16) *MallRepo {
	return &MallRepo{db: db, serverID: serverID}
}

// InsertUserKey replaces the user's mall key with a fresh one.
func (r *MallRepo) InsertUserKey(ctx context.Context, userID, characterID uint32, key string) error {
	if _, err := r.db.Pool.Exec(ctx,
		`DELETE FROM user_item_mall WHERE user_id = $1 AND server_id = $2`,
		userID, r.serverID,
	); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO user_item_mall(user_id, character_id, server_id, key, expiry)
		 VALUES($1, $2, $3, $4, $5)`,
		userID, characterID, r.serverID, key, time.Now().Add(MallKeyTTL),
	)
	return err
}

// DeleteExpiredKeys drops lapsed keys. Runs on the autosave cadence.
func (r *MallRepo) DeleteExpiredKeys(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM user_item_mall WHERE expiry <= NOW()`,
	)
	return err
}
