package database

import (
	"context"
	"database/sql"
	"strings"
)

// Schema statements are idempotent so they can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		first_name       VARCHAR(100) NOT NULL,
		last_name        VARCHAR(100) NOT NULL,
		mobile_number    VARCHAR(30)  NOT NULL,
		reservation_date DATE         NOT NULL,
		reservation_time TIME         NOT NULL,
		people           INT          NOT NULL,
		status           VARCHAR(20)  NOT NULL DEFAULT 'booked',
		created_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reservations_date (reservation_date)
	)`,
	`CREATE TABLE IF NOT EXISTS tables (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		table_name     VARCHAR(100) NOT NULL,
		capacity       INT          NOT NULL,
		reservation_id BIGINT UNSIGNED NULL,
		created_at     TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_tables_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id)
	)`,
}

// Migrate creates the reservations and tables schema when it does not
// exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedTables is the restaurant's standard floor plan, inserted only into
// an empty tables table.
var seedTables = []struct {
	name     string
	capacity int
}{
	{"#1", 6}, {"#2", 6},
	{"Bar #1", 1}, {"Bar #2", 1}, {"Bar #3", 1}, {"Bar #4", 1}, {"Bar #5", 1}, {"Bar #6", 1},
	{"Patio #1", 6}, {"Patio #2", 6}, {"Patio #3", 2}, {"Patio #4", 2}, {"Patio #5", 2}, {"Patio #6", 2},
	{"Stage Room #1", 4}, {"Stage Room #2", 4}, {"Stage Room #3", 4}, {"Stage Room #4", 4},
	{"Stage Room #5", 4}, {"Stage Room #6", 4}, {"Stage Room #7", 4}, {"Stage Room #8", 4},
	{"Stage Room #9", 4}, {"Stage Room #10", 4},
}

// Seed inserts the default floor plan when no tables exist.  Reseeding a
// populated database is a no-op so restarts never duplicate tables.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	query := `INSERT INTO tables (table_name, capacity) VALUES `
	args := make([]interface{}, 0, len(seedTables)*2)
	placeholders := make([]string, 0, len(seedTables))
	for _, t := range seedTables {
		placeholders = append(placeholders, "(?, ?)")
		args = append(args, t.name, t.capacity)
	}
	query += strings.Join(placeholders, ",")
	_, err := db.ExecContext(ctx, query, args...)
	return err
}
