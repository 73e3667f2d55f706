package index

import (
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/starford/vaultgraph/internal/apperr"
	"github.com/starford/vaultgraph/internal/graph"
	"github.com/starford/vaultgraph/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "vaultgraph-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"notes", "note_terms", "refs", "backlinks", "broken_links"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(t.TempDir() + "/missing/dir/x.db")
	if !errors.Is(err, apperr.ErrIndex) {
		t.Errorf("err = %v, want index error", err)
	}
}

func TestIndexNoteAndGetChecksum(t *testing.T) {
	db := testDB(t)
	mod := time.Now().Unix()
	doc := models.Document{Path: "hello.md", Content: "---\ntitle: Hello World\n---\nThis is a hello world note.", ModifiedAt: &mod}
	if err := db.IndexNote(doc); err != nil {
		t.Fatalf("IndexNote: %v", err)
	}
	cs, err := db.GetChecksum("hello.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs == "" {
		t.Error("expected stored checksum")
	}
	all, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if all["hello.md"] != cs {
		t.Errorf("AllChecksums = %v", all)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestRemoveNote(t *testing.T) {
	db := testDB(t)
	_ = db.IndexNote(models.Document{Path: "del.md", Content: "vanishing words"})

	if err := db.RemoveNote("del.md"); err != nil {
		t.Fatalf("RemoveNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	stats, _ := db.Stats()
	if stats.NumFiles != 0 || stats.NumTerms != 0 {
		t.Errorf("stats after remove = %+v", stats)
	}
}

func TestStats(t *testing.T) {
	db := testDB(t)
	_ = db.IndexNote(models.Document{Path: "a.md", Content: "Alpha beta beta"})
	_ = db.IndexNote(models.Document{Path: "b.md", Content: "beta, gamma!"})

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := models.IndexStats{NumFiles: 2, NumTerms: 3}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestIndexNote_ReplacesTerms(t *testing.T) {
	db := testDB(t)
	_ = db.IndexNote(models.Document{Path: "up.md", Content: "old words"})
	_ = db.IndexNote(models.Document{Path: "up.md", Content: "fresh"})

	stats, _ := db.Stats()
	if stats.NumFiles != 1 || stats.NumTerms != 1 {
		t.Errorf("stats = %+v, want 1 file 1 term", stats)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.IndexNote(models.Document{Path: "s.md", Content: "# Search Me\nuniqueword appears here"})
	_ = db.IndexNote(models.Document{Path: "o.md", Content: "unrelated"})

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" || results[0].Title != "Search Me" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}

func TestReplaceGraph(t *testing.T) {
	db := testDB(t)
	g := graph.NewBuilder().Build([]models.Document{
		{Path: "a.md", Content: "Link to [[b]]"},
		{Path: "c.md", Content: "Links to [[b|bee]] and [[a]] and [[missing]]"},
	}, []string{"a.md", "b.md", "c.md"})

	if err := db.ReplaceGraph(g); err != nil {
		t.Fatalf("ReplaceGraph: %v", err)
	}

	bl, err := db.Backlinks("b.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if !slices.Equal(bl, []string{"a.md", "c.md"}) {
		t.Errorf("backlinks(b.md) = %v", bl)
	}

	refs, err := db.References("c.md")
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs) != 3 || refs[0].Target != "b" || refs[0].Display == nil || *refs[0].Display != "bee" || refs[1].Display != nil {
		t.Errorf("references = %+v", refs)
	}

	broken, err := db.BrokenLinks()
	if err != nil {
		t.Fatalf("BrokenLinks: %v", err)
	}
	if len(broken) != 1 || !slices.Equal(broken["c.md"], []string{"missing"}) {
		t.Errorf("broken = %v", broken)
	}

	// A second replace drops everything from the first.
	if err := db.ReplaceGraph(graph.NewBuilder().Build(nil, nil)); err != nil {
		t.Fatalf("ReplaceGraph: %v", err)
	}
	bl, _ = db.Backlinks("b.md")
	if len(bl) != 0 {
		t.Errorf("backlinks after replace = %v", bl)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Hello, hello WORLD 42x!")
	if !slices.Equal(got, []string{"hello", "world", "42x"}) {
		t.Errorf("tokenize = %v", got)
	}
}
