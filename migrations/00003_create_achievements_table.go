package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateAchievementsTable, downCreateAchievementsTable)
}

func upCreateAchievementsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS achievements (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			start_time TIMESTAMP WITH TIME ZONE NOT NULL,
			end_time TIMESTAMP WITH TIME ZONE,
			achieved_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			CHECK (end_time IS NULL OR end_time >= start_time)
		);
		CREATE INDEX idx_achievements_user_id ON achievements (user_id);
	`)
	return err
}

func downCreateAchievementsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS achievements;`)
	return err
}
