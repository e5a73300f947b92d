package sqlite

// Schema contains the SQL statements to create the registry database schema.
const Schema = `
-- Files table: one row per stored upload awaiting expiry
CREATE TABLE IF NOT EXISTS files (
    token             TEXT PRIMARY KEY,
    category          TEXT NOT NULL,
    stored_name       TEXT NOT NULL,
    original_filename TEXT NOT NULL,
    file_path         TEXT NOT NULL,
    size_bytes        INTEGER NOT NULL,
    created_at        INTEGER NOT NULL,
    expires_at        INTEGER NOT NULL
);

-- Index for the reaper's expiry scan
CREATE INDEX IF NOT EXISTS idx_files_expires ON files(expires_at);
`
