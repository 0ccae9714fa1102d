package storage

const schema = `
-- The 'kv' table holds small string values such as the username and the
-- history document.
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
