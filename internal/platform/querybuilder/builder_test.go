package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "web_name").
		From("players").
		Where(Eq("team_id", int64(3)), InInt64("position", []int64{1, 2})).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, web_name FROM players WHERE team_id = $1 AND position IN ($2, $3) ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_QuestionDialect(t *testing.T) {
	query, args, err := Select("payload_json").
		Dialect(Question).
		From("raw_payloads").
		Where(Eq("source", "fpl"), Expr("fetched_at >= ?", "2024-08-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT payload_json FROM raw_payloads WHERE source = ? AND fetched_at >= ?"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyIn(t *testing.T) {
	query, _, err := Select("id").From("players").Where(InInt64("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID     int64  `db:"id"`
		Name   string `db:"name"`
		Ignore string `db:"-"`
	}

	query, args, err := InsertModels(Dollar, "teams", []row{{ID: 1, Name: "ARS"}, {ID: 2, Name: "AVL"}},
		"ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != int64(2) || args[3] != "AVL" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("player_stats").Where(Eq("player_id", int64(9))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM player_stats WHERE player_id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("player_stats").ToSQL(); err == nil {
		t.Fatalf("expected error for unscoped delete")
	}
}
