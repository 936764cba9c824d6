package sqlite

import (
	"database/sql"

	"github.com/mmynk/veresiye/internal/models"
)

// schema sets up the database. It runs on every startup and is idempotent.
// Decimal columns are TEXT so balances round-trip without float error.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    surname TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    balance TEXT NOT NULL DEFAULT '0',
    opening_balance TEXT NOT NULL DEFAULT '0',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS movements (
    id TEXT PRIMARY KEY,
    customer_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('payment', 'debt')),
    note TEXT,
    occurred_at INTEGER NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_movements_customer_occurred ON movements(customer_id, occurred_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// seedSettings inserts default settings without touching existing values.
func seedSettings(db *sql.DB) error {
	for key, value := range models.DefaultSettings() {
		if _, err := db.Exec("INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
			return err
		}
	}
	return nil
}
