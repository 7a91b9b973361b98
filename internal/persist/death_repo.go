package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DeathRepo writes journal batches to PostgreSQL.
type DeathRepo struct {
	db *DB
}

func NewDeathRepo(db *DB) *DeathRepo {
	return &DeathRepo{db: db}
}

// WriteBatch writes every row of b in a single transaction.
func (r *DeathRepo) WriteBatch(ctx context.Context, b Batch) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return writeBatch(ctx, tx, b)
	})
}

func writeBatch(ctx context.Context, tx pgx.Tx, b Batch) error {
	var err error
	for _, d := range b.Deaths {
		if _, err := tx.Exec(ctx,
			`INSERT INTO death_log (tick, victim_char, victim_name, victim_npc, killer_char, killer_name, category, map_id, x, y)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			int64(d.Tick), d.VictimChar, d.VictimName, d.VictimNpc, d.KillerChar, d.KillerName, d.Category, d.MapID, d.X, d.Y,
		); err != nil {
			return fmt.Errorf("death_log insert: %w", err)
		}
	}

	for _, k := range b.BossKills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO boss_kill_counts (char_id, boss_id, kill_count)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (char_id, boss_id) DO UPDATE SET kill_count = GREATEST(boss_kill_counts.kill_count, EXCLUDED.kill_count)`,
			k.CharID, k.BossID, k.Count,
		); err != nil {
			return fmt.Errorf("boss_kill_counts upsert: %w", err)
		}
	}

	for _, p := range b.Permissions {
		if p.Granted {
			_, err = tx.Exec(ctx,
				`INSERT INTO player_permissions (char_id, permission) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				p.CharID, p.Permission,
			)
		} else {
			_, err = tx.Exec(ctx,
				`DELETE FROM player_permissions WHERE char_id = $1 AND permission = $2`,
				p.CharID, p.Permission,
			)
		}
		if err != nil {
			return fmt.Errorf("player_permissions update: %w", err)
		}
	}

	return nil
}
