package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CharacterRow mirrors one row of the characters table.
type CharacterRow struct {
	ID           uint32
	UserID       uint32
	ServerID     uint16
	Name         string
	RefID        uint32
	Level        uint8
	MaxLevel     uint8
	Exp          uint64
	SPExp        uint64
	SP           uint32
	Strength     uint16
	Intelligence uint16
	HP           uint32
	MP           uint32
	X            float32
	Y            float32
	Z            float32
	Region       uint16
	Rotation     uint16
	Gold         uint64
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// LoadByUser loads all characters of a user on this server.
func (r *CharacterRepo) LoadByUser(ctx context.Context, userID uint32, serverID uint16) ([]CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, user_id, server_id, name, ref_id, level, max_level, exp, sp_exp, sp,
		        strength, intelligence, current_hp, current_mp,
		        x, y, z, region, rotation, gold
		 FROM characters
		 WHERE user_id = $1 AND server_id = $2 AND deleted_at IS NULL
		 ORDER BY id`, userID, serverID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CharacterRow
	for rows.Next() {
		var c CharacterRow
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ServerID, &c.Name, &c.RefID, &c.Level, &c.MaxLevel,
			&c.Exp, &c.SPExp, &c.SP,
			&c.Strength, &c.Intelligence, &c.HP, &c.MP,
			&c.X, &c.Y, &c.Z, &c.Region, &c.Rotation, &c.Gold,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CharacterRepo) LoadByName(ctx context.Context, name string) (*CharacterRow, error) {
	c := &CharacterRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, server_id, name, ref_id, level, max_level, exp, sp_exp, sp,
		        strength, intelligence, current_hp, current_mp,
		        x, y, z, region, rotation, gold
		 FROM characters WHERE name = $1 AND deleted_at IS NULL`, name,
	).Scan(
		&c.ID, &c.UserID, &c.ServerID, &c.Name, &c.RefID, &c.Level, &c.MaxLevel,
		&c.Exp, &c.SPExp, &c.SP,
		&c.Strength, &c.Intelligence, &c.HP, &c.MP,
		&c.X, &c.Y, &c.Z, &c.Region, &c.Rotation, &c.Gold,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateInfo writes the mutable character state: health, mana, position,
// level, exp and sp. Called from the autosave task, never from the tick.
func (r *CharacterRepo) UpdateInfo(ctx context.Context, c *CharacterRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET
			level = $1, max_level = $2, exp = $3, sp_exp = $4, sp = $5,
			current_hp = $6, current_mp = $7,
			x = $8, y = $9, z = $10, region = $11, rotation = $12,
			gold = $13
		WHERE id = $14`,
		c.Level, c.MaxLevel, c.Exp, c.SPExp, c.SP,
		c.HP, c.MP,
		c.X, c.Y, c.Z, c.Region, c.Rotation,
		c.Gold, c.ID,
	)
	return err
}

// UpsertMastery writes one (character, mastery, level) entry.
func (r *CharacterRepo) UpsertMastery(ctx context.Context, characterID, masteryID uint32, level uint8) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_masteries(character_id, mastery_id, level)
		 VALUES($1, $2, $3)
		 ON CONFLICT(character_id, mastery_id) DO UPDATE SET level = EXCLUDED.level`,
		characterID, masteryID, level,
	)
	return err
}

// UpsertSkill writes one (character, skill group, level) entry.
func (r *CharacterRepo) UpsertSkill(ctx context.Context, characterID, skillGroupID uint32, level uint8) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_skills(character_id, skill_group_id, level)
		 VALUES($1, $2, $3)
		 ON CONFLICT(skill_group_id, character_id) DO UPDATE SET level = EXCLUDED.level`,
		characterID, skillGroupID, level,
	)
	return err
}

// LoadMasteries loads the mastery levels of a character.
func (r *CharacterRepo) LoadMasteries(ctx context.Context, characterID uint32) (map[uint32]uint8, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT mastery_id, level FROM character_masteries WHERE character_id = $1`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint32]uint8)
	for rows.Next() {
		var id uint32
		var level uint8
		if err := rows.Scan(&id, &level); err != nil {
			return nil, err
		}
		result[id] = level
	}
	return result, rows.Err()
}
