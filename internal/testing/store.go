// Package testing provides shared helpers for package tests.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/biograf/biograf/persons"
)

// CreateTestStore opens a store over a fresh temporary data directory with
// a seeded ID generator so generated identifiers are stable per test run.
// The directory is removed automatically when the test finishes.
func CreateTestStore(t *testing.T) *persons.Store {
	t.Helper()

	dir := t.TempDir()
	store, err := persons.Open(persons.Options{
		PersonsDir: filepath.Join(dir, "persons"),
		BackupDir:  filepath.Join(dir, "backups"),
		ArchiveDir: filepath.Join(dir, "archive"),
		Generator:  persons.NewSeededGenerator(persons.FormatGEDCOM, 1),
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	return store
}
