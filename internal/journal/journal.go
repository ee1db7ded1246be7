// Package journal records release actions performed by curator.
// Entries are kept newest-last in a JSON file, capped at maxEntries.
// A journal that no longer parses is set aside as <path>.corrupt the next
// time an entry is recorded.
package journal

import (
	"fmt"
	"os"
	"time"
)

const maxEntries = 200

// Action names recorded in the journal
const (
	ActionCreate = "create"
	ActionMerge  = "merge"
	ActionTag    = "tag"
	ActionReset  = "reset"
	ActionGather = "gather"
)

// Entry is a single performed action
type Entry struct {
	Time    time.Time `json:"time"`
	Action  string    `json:"action"`
	Root    string    `json:"root"`
	Branch  string    `json:"branch,omitempty"`
	Version string    `json:"version,omitempty"`
	Tag     string    `json:"tag,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Journal is the on-disk list of entries
type Journal struct {
	Entries []Entry `json:"entries"`
}

// Load reads the journal at path. A missing or corrupted file yields an
// empty journal.
func Load(path string) (*Journal, error) {
	j, _, err := read(path)
	return j, err
}

// Save writes the journal atomically
func (j *Journal) Save(path string) error {
	return write(path, j)
}

// Add appends e (stamping Time if unset) and evicts the oldest entries
// beyond the cap.
func (j *Journal) Add(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	j.Entries = append(j.Entries, e)
	if over := len(j.Entries) - maxEntries; over > 0 {
		j.Entries = append([]Entry(nil), j.Entries[over:]...)
	}
}

// Record loads the journal at path, adds e and saves it
func Record(path string, e Entry) error {
	j, corrupt, err := read(path)
	if err != nil {
		return err
	}
	if corrupt {
		if err := os.Rename(path, path+corruptSuffix); err != nil {
			return fmt.Errorf("set aside corrupt journal: %w", err)
		}
	}
	j.Add(e)
	return j.Save(path)
}

// List returns the newest n entries for root (all roots when empty),
// newest first. n <= 0 returns every match.
func (j *Journal) List(root string, n int) []Entry {
	var out []Entry
	for i := len(j.Entries) - 1; i >= 0; i-- {
		e := j.Entries[i]
		if root != "" && e.Root != root {
			continue
		}
		out = append(out, e)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
