package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "raido-test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func importRow(t *testing.T, path, content string) DocumentRow {
	t.Helper()
	res, err := importer.New(importer.Options{ParseFrontMatter: true, ExtractTitle: true}, nil).Import(content)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	return RowFromImport(path, "sum-"+path, res)
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	for _, table := range []string{"documents", "document_tags"} {
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestUpsertAndGetDocument(t *testing.T) {
	db := testDB(t)
	row := importRow(t, "hello.md", "---\ntitle: Hello\ntags:\n  - go\n---\n# Heading #test\n- [x] done")
	if err := db.UpsertDocument(row); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	got, err := db.GetDocument("hello.md")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "Hello" || got.Checksum != "sum-hello.md" {
		t.Errorf("row = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "test" {
		t.Errorf("tags = %v, want [go test]", got.Tags)
	}
	if len(got.Document.Root.Children) != 2 {
		t.Fatalf("blocks = %d, want 2", len(got.Document.Root.Children))
	}
	list, ok := got.Document.Root.Children[1].(models.ListNode)
	if !ok || list.ListType != models.ListCheck {
		t.Fatalf("second block = %#v", got.Document.Root.Children[1])
	}
	if c := list.Children[0].Checked; c == nil || !*c {
		t.Error("checked state lost in round trip")
	}
	if got.FrontMatter == nil || got.FrontMatter.Len() != 2 {
		t.Errorf("front matter = %#v", got.FrontMatter)
	}
	if keys := got.FrontMatter.Keys(); keys[0] != "title" || keys[1] != "tags" {
		t.Errorf("front matter keys = %v, want insertion order", keys)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetDocument("missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpsertReplacesTags(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(importRow(t, "up.md", "#old text"))
	_ = db.UpsertDocument(importRow(t, "up.md", "#new text"))

	got, err := db.GetDocument("up.md")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "new" {
		t.Errorf("tags = %v, want [new]", got.Tags)
	}
	tags, _ := db.Tags()
	if len(tags) != 1 || tags[0].Tag != "new" {
		t.Errorf("tag counts = %+v", tags)
	}
}

func TestListDocuments(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(importRow(t, "b.md", "# Bee #shared"))
	_ = db.UpsertDocument(importRow(t, "a.md", "# Ay #shared #solo"))
	_ = db.UpsertDocument(importRow(t, "c.md", "plain"))

	all, total, err := db.ListDocuments(0, 0, "")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 3 || len(all) != 3 || all[0].Path != "a.md" {
		t.Fatalf("list = %+v total=%d", all, total)
	}
	if all[0].Title != "Ay #shared #solo" || len(all[0].Tags) != 2 {
		t.Errorf("summary = %+v", all[0])
	}
	if all[2].Tags == nil {
		t.Error("untagged summary should carry an empty tag slice")
	}

	page, total, _ := db.ListDocuments(1, 1, "")
	if total != 3 || len(page) != 1 || page[0].Path != "b.md" {
		t.Errorf("page = %+v total=%d", page, total)
	}

	tagged, total, _ := db.ListDocuments(10, 0, "shared")
	if total != 2 || len(tagged) != 2 {
		t.Errorf("tagged = %+v total=%d", tagged, total)
	}
}

func TestTagsCounts(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(importRow(t, "1.md", "#go #db"))
	_ = db.UpsertDocument(importRow(t, "2.md", "#go"))

	tags, err := db.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != (TagCount{Tag: "go", Count: 2}) || tags[1] != (TagCount{Tag: "db", Count: 1}) {
		t.Errorf("tags = %+v", tags)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(importRow(t, "del.md", "bye #tag"))

	if err := db.DeleteDocument("del.md"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := db.GetDocument("del.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted document still readable: %v", err)
	}
	if tags, _ := db.Tags(); len(tags) != 0 {
		t.Errorf("tags left behind: %+v", tags)
	}
	if err := db.DeleteDocument("del.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestSync(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	imp := importer.New(importer.DefaultOptions(), nil)

	_ = os.WriteFile(filepath.Join(vaultDir, "keep.md"), []byte("# Keep"), 0o644)
	_ = os.WriteFile(filepath.Join(vaultDir, "blank.md"), []byte("   \n"), 0o644)
	_ = db.UpsertDocument(DocumentRow{Path: "gone.md", Checksum: "x", UpdatedAt: time.Now()})

	stats, err := Sync(db, store, imp, quietLogger())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats != (SyncStats{Indexed: 1, Removed: 1, Failed: 1}) {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := db.GetDocument("keep.md"); err != nil {
		t.Errorf("keep.md not indexed: %v", err)
	}
	if _, err := db.GetDocument("gone.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("stale entry not removed")
	}

	stats, _ = Sync(db, store, imp, quietLogger())
	if stats.Indexed != 0 {
		t.Errorf("unchanged file re-indexed: %+v", stats)
	}
}

func TestSync_BlankSourceDropsEntry(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	imp := importer.New(importer.DefaultOptions(), nil)
	path := filepath.Join(vaultDir, "a.md")

	_ = os.WriteFile(path, []byte("# Old content #oldtag"), 0o644)
	if stats, err := Sync(db, store, imp, quietLogger()); err != nil || stats.Indexed != 1 {
		t.Fatalf("first Sync = %+v, %v", stats, err)
	}

	_ = os.WriteFile(path, []byte("   \n"), 0o644)
	stats, err := Sync(db, store, imp, quietLogger())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats != (SyncStats{Removed: 1}) {
		t.Errorf("stats = %+v, want one removal", stats)
	}
	if _, err := db.GetDocument("a.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetDocument error = %v, want ErrNotFound", err)
	}
	tags, err := db.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %v, want none", tags)
	}
}
