package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateNoticesTable, downCreateNoticesTable)
}

func upCreateNoticesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS notices (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			read_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);
		CREATE INDEX idx_notices_user_id ON notices (user_id);
	`)
	return err
}

func downCreateNoticesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS notices;`)
	return err
}
