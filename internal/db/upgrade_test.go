package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradeAddsPlanCounts simulates a database created before the
// plans table carried listing columns. Stored plans survive and get their
// counts backfilled from the payload.
func TestMigrate_UpgradeAddsPlanCounts(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE plans (
		user_id    TEXT NOT NULL,
		date       TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO plans (user_id, date, data, created_at) VALUES
		('u1', '2025-03-14', '{"blocks":[{"id":"a"},{"id":"b"},{"id":"c"}],"warnings":["focus_cap: x"]}', '2025-03-14T08:00:00Z'),
		('u1', '2025-03-15', '{"blocks":[]}', '2025-03-15T08:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var blocks, warnings int
	require.NoError(t, db.QueryRow(
		`SELECT block_count, warning_count FROM plans WHERE user_id = 'u1' AND date = '2025-03-14'`,
	).Scan(&blocks, &warnings))
	assert.Equal(t, 3, blocks)
	assert.Equal(t, 1, warnings)

	require.NoError(t, db.QueryRow(
		`SELECT block_count, warning_count FROM plans WHERE user_id = 'u1' AND date = '2025-03-15'`,
	).Scan(&blocks, &warnings))
	assert.Equal(t, 0, blocks)
	assert.Equal(t, 0, warnings)

	// Re-running leaves backfilled rows alone.
	require.NoError(t, Migrate(db))
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plans WHERE block_count < 0`).Scan(&n))
	assert.Zero(t, n)
}
