package postgres

import "time"

type sportCollectionTableModel struct {
	SportID   string    `db:"sport_id"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}
