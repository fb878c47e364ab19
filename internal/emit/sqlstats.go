// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Stats is one run's worth of parser statistics.
type Stats struct {
	Grammar      string
	Terminals    int
	Nonterminals int
	Rules        int
	States       int
	TableEntries int
	Conflicts    int
}

// WriteStatsDB appends one row of generation statistics to the SQLite
// database at path, creating it (and the stats table) if needed.
func WriteStatsDB(path string, st Stats) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	const schema = `
CREATE TABLE IF NOT EXISTS stats (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	generated_at  TEXT NOT NULL,
	grammar       TEXT NOT NULL,
	terminals     INTEGER NOT NULL,
	nonterminals  INTEGER NOT NULL,
	rules         INTEGER NOT NULL,
	states        INTEGER NOT NULL,
	table_entries INTEGER NOT NULL,
	conflicts     INTEGER NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO stats (generated_at, grammar, terminals, nonterminals, rules, states, table_entries, conflicts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), st.Grammar,
		st.Terminals, st.Nonterminals, st.Rules, st.States, st.TableEntries, st.Conflicts)
	return err
}
