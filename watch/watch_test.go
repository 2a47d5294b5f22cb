package watch_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	biograftest "github.com/biograf/biograf/internal/testing"
	"github.com/biograf/biograf/persons"
	"github.com/biograf/biograf/watch"
)

const validDoc = `schema_version: "1.0.0"
person_id: I382000000001
name:
  full_name: Johann Johnson
  given_names: Johann
  surname: Johnson
sources:
  - census_1850.pdf
`

type change struct {
	path   string
	issues []persons.Issue
}

func startWatcher(t *testing.T, dir, execCmd string) <-chan change {
	t.Helper()
	changes := make(chan change, 16)
	w, err := watch.New(watch.Options{
		Dir:                dir,
		Debounce:           20 * time.Millisecond,
		MaxEventsPerMinute: 100000, // effectively unlimited for tests
		Exec:               execCmd,
		Logger:             zap.NewNop().Sugar(),
		OnChange: func(path string, issues []persons.Issue) {
			changes <- change{path: path, issues: issues}
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return changes
}

func waitForChange(t *testing.T, changes <-chan change) change {
	t.Helper()
	select {
	case c := <-changes:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return change{}
	}
}

func TestWatcherValidatesChangedDocuments(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir, "")

	good := filepath.Join(dir, "I382000000001_Johann_Johnson.yaml")
	if err := os.WriteFile(good, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	got := waitForChange(t, changes)
	if got.path != good {
		t.Errorf("change path = %s, want %s", got.path, good)
	}
	if len(got.issues) != 0 {
		t.Errorf("valid document reported issues: %v", got.issues)
	}

	bad := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(bad, []byte("person_id: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	got = waitForChange(t, changes)
	if got.path != bad {
		t.Errorf("change path = %s, want %s", got.path, bad)
	}
	if len(got.issues) == 0 {
		t.Error("corrupt document reported no issues")
	}
}

func TestWatcherIgnoresNonDocuments(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir, "")

	// Neither temp files nor foreign extensions should trigger processing.
	if err := os.WriteFile(filepath.Join(dir, ".tmp-12345"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	real := filepath.Join(dir, "real.yaml")
	if err := os.WriteFile(real, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	got := waitForChange(t, changes)
	if got.path != real {
		t.Errorf("first processed change = %s, want %s", got.path, real)
	}
}

func TestWatcherRunsHookWithPathAppended(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(t.TempDir(), "hook.copy")
	execCmd := fmt.Sprintf(`sh -c 'cat "$0" > %s'`, marker)

	changes := startWatcher(t, dir, execCmd)

	doc := filepath.Join(dir, "hooked.yaml")
	if err := os.WriteFile(doc, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForChange(t, changes)

	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(marker)
		if err == nil {
			if string(data) != validDoc {
				t.Errorf("hook copied %d bytes, want the document", len(data))
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("hook never produced its marker file")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Store writes land as an atomic rename into the watched directory; the
// watcher must see the final document and never the temp file.
func TestWatcherSeesStoreWrites(t *testing.T) {
	store := biograftest.CreateTestStore(t)
	changes := startWatcher(t, store.PersonsDir(), "")

	p, created, err := store.Create(persons.Fields{
		GivenNames: "Mette",
		Surname:    "Olsen",
		BirthYear:  1833,
		Sources:    []string{"parish_register_1833.jpg"},
	}, persons.CreateOptions{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Fatal("Create matched an existing record in an empty store")
	}

	got := waitForChange(t, changes)
	if got.path != p.Path {
		t.Errorf("change path = %s, want %s", got.path, p.Path)
	}
	if len(got.issues) != 0 {
		t.Errorf("store-written document reported issues: %v", got.issues)
	}

	if _, err := store.Update(p.PersonID, map[string]any{"notes": "updated"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got = waitForChange(t, changes)
	if got.path != p.Path {
		t.Errorf("update change path = %s, want %s", got.path, p.Path)
	}
	if len(got.issues) != 0 {
		t.Errorf("updated document reported issues: %v", got.issues)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts watch.Options
	}{
		{"missing dir", watch.Options{}},
		{"nonexistent dir", watch.Options{Dir: "/no/such/dir"}},
		{"unterminated exec quoting", watch.Options{Dir: os.TempDir(), Exec: "validate 'oops"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := watch.New(tc.opts); err == nil {
				t.Error("New succeeded, want error")
			}
		})
	}
}
