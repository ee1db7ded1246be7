package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.json")

	if err := Record(path, Entry{Action: ActionCreate, Root: "/repo", Branch: "release-1.0.0", Version: "1.0.0"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	j, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(j.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(j.Entries))
	}
	e := j.Entries[0]
	if e.Branch != "release-1.0.0" || e.Version != "1.0.0" || e.Action != ActionCreate {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Time.IsZero() {
		t.Error("Time should be stamped")
	}
}

func TestLoad_MissingOrCorrupted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	j, err := Load(filepath.Join(dir, "missing.json"))
	if err != nil || len(j.Entries) != 0 {
		t.Fatalf("Load(missing) = %+v, %v", j, err)
	}

	for name, content := range map[string]string{
		"bad.json":   "{not json",
		"shape.json": `{"entries": "release-1.0.0"}`,
	} {
		bad := filepath.Join(dir, name)
		if err := os.WriteFile(bad, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		j, err = Load(bad)
		if err != nil || len(j.Entries) != 0 {
			t.Fatalf("Load(%s) = %+v, %v", name, j, err)
		}
	}
}

func TestRecord_SetsAsideCorruptJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Record(path, Entry{Action: ActionTag, Root: "/repo", Tag: "v1.0.0"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	backup, err := os.ReadFile(path + corruptSuffix)
	if err != nil {
		t.Fatalf("corrupt journal was not kept: %v", err)
	}
	if string(backup) != "{not json" {
		t.Errorf("backup = %q", backup)
	}
	j, err := Load(path)
	if err != nil || len(j.Entries) != 1 || j.Entries[0].Tag != "v1.0.0" {
		t.Fatalf("Load after recovery = %+v, %v", j, err)
	}
}

func TestRecord_CapSurvivesSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "journal.json")
	for i := range maxEntries + 3 {
		e := Entry{Action: ActionCreate, Root: "/repo", Version: fmt.Sprintf("0.%d.0", i)}
		if err := Record(path, e); err != nil {
			t.Fatalf("Record(%d) failed: %v", i, err)
		}
	}

	j, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(j.Entries) != maxEntries {
		t.Fatalf("len = %d, want %d", len(j.Entries), maxEntries)
	}
	if got := j.List("/repo", 1)[0].Version; got != fmt.Sprintf("0.%d.0", maxEntries+2) {
		t.Errorf("newest version = %q", got)
	}

	leftovers, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range leftovers {
		if strings.HasSuffix(f.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", f.Name())
		}
	}
}

func TestAdd_MaxCap(t *testing.T) {
	t.Parallel()

	j := &Journal{}
	base := time.Now().Add(-time.Hour)
	for i := range maxEntries + 5 {
		j.Add(Entry{Action: ActionTag, Tag: fmt.Sprintf("v0.0.%d", i), Time: base.Add(time.Duration(i) * time.Second)})
	}

	if len(j.Entries) != maxEntries {
		t.Fatalf("len = %d, want %d", len(j.Entries), maxEntries)
	}
	if j.Entries[0].Tag != "v0.0.5" {
		t.Errorf("oldest entry = %q, want v0.0.5", j.Entries[0].Tag)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	j := &Journal{}
	j.Add(Entry{Action: ActionCreate, Root: "/a", Version: "1.0.0"})
	j.Add(Entry{Action: ActionCreate, Root: "/b", Version: "2.0.0"})
	j.Add(Entry{Action: ActionMerge, Root: "/a", Version: "1.0.0"})
	j.Add(Entry{Action: ActionTag, Root: "/a", Tag: "v1.0.0"})

	tests := []struct {
		name    string
		root    string
		n       int
		actions []string
	}{
		{"all roots", "", 0, []string{"tag", "merge", "create", "create"}},
		{"filtered", "/a", 0, []string{"tag", "merge", "create"}},
		{"limited", "/a", 2, []string{"tag", "merge"}},
		{"unknown root", "/c", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := j.List(tt.root, tt.n)
			if len(got) != len(tt.actions) {
				t.Fatalf("List() returned %d entries, want %d", len(got), len(tt.actions))
			}
			for i, e := range got {
				if e.Action != tt.actions[i] {
					t.Errorf("entry %d action = %q, want %q", i, e.Action, tt.actions[i])
				}
			}
		})
	}
}
