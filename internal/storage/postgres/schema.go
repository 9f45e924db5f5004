// Package postgres provides a PostgreSQL implementation of the session store.
package postgres

// Schema contains the SQL statements to create the database schema for PostgreSQL.
// The sessions table is the authoritative record: each row holds the full session
// state as JSON. The liked_embeddings table is a queryable projection of the
// session's liked-profile vectors, refreshed on every save so embeddings can be
// inspected (and, with pgvector, searched) directly in SQL.
const Schema = `
-- Sessions table: one row per scouting session, full state as JSON
CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    state JSONB NOT NULL,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Liked embeddings: vectors of liked/saved profiles, projected per save
CREATE TABLE IF NOT EXISTS liked_embeddings (
    session_id TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    embedding BYTEA NOT NULL, -- Stored as binary packed float64 array
    dimension INTEGER NOT NULL,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

    PRIMARY KEY (session_id, entity_id),
    FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
CREATE INDEX IF NOT EXISTS idx_liked_embeddings_session ON liked_embeddings(session_id);
`

// MigrationPgvector contains SQL to add pgvector support to the liked_embeddings
// table. This migration is only applied when the vector extension is available.
// Safe to run multiple times (uses IF NOT EXISTS / conditional checks).
const MigrationPgvector = `
-- Add embedding_vec column if it doesn't already exist.
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns
        WHERE table_name = 'liked_embeddings' AND column_name = 'embedding_vec'
    ) THEN
        ALTER TABLE liked_embeddings ADD COLUMN embedding_vec vector;
    END IF;
END
$$;

-- Create ivfflat index for approximate nearest-neighbor vector search.
-- IMPORTANT: ivfflat requires at least one row to exist; we guard with a DO block.
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_indexes WHERE indexname = 'idx_liked_embeddings_vec_cosine'
  ) THEN
    IF EXISTS (SELECT 1 FROM liked_embeddings LIMIT 1) THEN
      EXECUTE 'CREATE INDEX idx_liked_embeddings_vec_cosine ON liked_embeddings USING ivfflat (embedding_vec vector_cosine_ops) WITH (lists = 100)';
    END IF;
  END IF;
END$$;
`
