package db

import "testing"

func TestDetectDialect(t *testing.T) {
	cases := map[string]Dialect{
		"postgres://u:p@localhost:5432/grader?sslmode=disable": DialectPostgres,
		"postgresql://localhost/grader":                        DialectPostgres,
		"host=localhost user=postgres dbname=grader":           DialectPostgres,
		"sqlite://./data/grader.db":                            DialectSQLite,
		"file:grader?mode=memory&cache=shared":                 DialectSQLite,
		":memory:":                                             DialectSQLite,
		"./grader.sqlite3":                                     DialectSQLite,
	}
	for dsn, want := range cases {
		if got := DetectDialect(dsn); got != want {
			t.Fatalf("DetectDialect(%q)=%s want %s", dsn, got, want)
		}
	}
	if got := sqlitePath("sqlite://./data/grader.db"); got != "./data/grader.db" {
		t.Fatalf("sqlitePath: %q", got)
	}
}
