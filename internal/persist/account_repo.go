package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/kumpelblase2/agentd/internal/login"
)

// AccountRepo resolves front-door users into server users for this shard.
type AccountRepo struct {
	db       *DB
	serverID uint16
}

func NewAccountRepo(db *DB, serverID uint16) *AccountRepo {
	return &AccountRepo{db: db, serverID: serverID}
}

// FetchServerUser loads the per-shard user row for an account, creating it
// on first contact with this server.
func (r *AccountRepo) FetchServerUser(ctx context.Context, userID uint32, username string) (*login.ServerUser, error) {
	var id uint32
	var name string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, username FROM server_users WHERE user_id = $1 AND server_id = $2`,
		userID, r.serverID,
	).Scan(&id, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := r.db.Pool.Exec(ctx,
			`INSERT INTO server_users(user_id, server_id, username) VALUES($1, $2, $3)`,
			userID, r.serverID, username,
		); err != nil {
			return nil, err
		}
		return &login.ServerUser{ID: userID, Username: username}, nil
	}
	if err != nil {
		return nil, err
	}
	return &login.ServerUser{ID: id, Username: name}, nil
}
