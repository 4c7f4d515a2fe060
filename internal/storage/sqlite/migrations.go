package sqlite

// migrations contains the SQL migrations for the SQLite database.
var migrations = []string{
	// Migration 1: Create the request log
	`
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);
	INSERT INTO schema_version (version) VALUES (0);

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		resolved TEXT,
		fallback INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL,
		bytes INTEGER NOT NULL DEFAULT 0,
		delay_ms INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		remote TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at);

	UPDATE schema_version SET version = 1;
	`,
}
