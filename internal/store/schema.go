package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL DEFAULT '',
    mode                 TEXT NOT NULL,
    seed                 INTEGER NOT NULL DEFAULT 0,
    simulations          INTEGER NOT NULL DEFAULT 0,
    months               INTEGER NOT NULL,
    expected_final       REAL NOT NULL,
    baseline_final       REAL NOT NULL,
    parameters           TEXT NOT NULL,
    settings             TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_months (
    run_id               TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    month                INTEGER NOT NULL,
    date                 TEXT NOT NULL,
    total                REAL NOT NULL,
    p10                  REAL,
    p25                  REAL,
    p50                  REAL,
    p75                  REAL,
    p90                  REAL,
    PRIMARY KEY (run_id, month)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
