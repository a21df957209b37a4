// ABOUTME: SQLite database schema for the study corpus and article claims
// ABOUTME: Creates all tables and indexes for local storage
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Scientific studies (the evidence corpus)
CREATE TABLE IF NOT EXISTS studies (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    text TEXT NOT NULL,
    topic TEXT,
    discipline TEXT,
    source_type TEXT,
    source_url TEXT,
    authors TEXT,
    publication_date DATETIME,
    keywords TEXT,
    citation_count INTEGER DEFAULT 0,
    doi TEXT,
    journal TEXT,
    vector BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Web articles whose claims get verified against the corpus
CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    title TEXT,
    text TEXT NOT NULL,
    cited_studies TEXT,
    vector BLOB,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Claims extracted from articles, one row per claim
CREATE TABLE IF NOT EXISTS claims (
    id TEXT PRIMARY KEY,
    article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    related_study_ids TEXT,
    confidence_score REAL DEFAULT 0,
    verified INTEGER DEFAULT 0,
    verification_notes TEXT,
    verified_at DATETIME,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_studies_discipline ON studies(discipline);
CREATE INDEX IF NOT EXISTS idx_studies_topic ON studies(topic);
CREATE INDEX IF NOT EXISTS idx_studies_doi ON studies(doi);
CREATE INDEX IF NOT EXISTS idx_articles_url ON articles(url);
CREATE INDEX IF NOT EXISTS idx_claims_article ON claims(article_id);
CREATE INDEX IF NOT EXISTS idx_claims_verified ON claims(verified);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
