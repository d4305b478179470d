package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/oddsight/oddsight/internal/domain/match"
	qb "github.com/oddsight/oddsight/internal/platform/querybuilder"
)

// CollectionRepository persists the merged per-sport collections as JSONB
// payloads, one row per sport. The in-memory repository stays the source
// for reads during normal operation; this one is the durable copy that
// survives restarts.
type CollectionRepository struct {
	db *sqlx.DB
}

func NewCollectionRepository(db *sqlx.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Current(ctx context.Context) (match.Collection, error) {
	query, args, err := qb.Select("sport_id", "payload", "updated_at").
		From("sport_collections").
		OrderBy("sport_id").
		ToSQL()
	if err != nil {
		return match.Collection{}, fmt.Errorf("build select collections query: %w", err)
	}

	var rows []sportCollectionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return match.Collection{}, fmt.Errorf("select collections: %w", err)
	}

	var out match.Collection
	for _, row := range rows {
		var c match.Collection
		if err := sonic.Unmarshal(row.Payload, &c); err != nil {
			return match.Collection{}, fmt.Errorf("decode collection payload for %s: %w", row.SportID, err)
		}
		out.Sports = append(out.Sports, c.Sports...)
		out.Leagues = append(out.Leagues, c.Leagues...)
		out.Matches = append(out.Matches, c.Matches...)
	}

	return out, nil
}

func (r *CollectionRepository) ReplaceSport(ctx context.Context, sportID string, c match.Collection) error {
	payload, err := sonic.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode collection payload: %w", err)
	}

	query, args, err := qb.InsertInto("sport_collections").
		Columns("sport_id", "payload", "updated_at").
		Values(sportID, payload, time.Now().UTC()).
		Suffix("ON CONFLICT (sport_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert collection query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert collection for %s: %w", sportID, err)
	}

	return nil
}
