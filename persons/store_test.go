package persons

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biograf/biograf/docio"
	"github.com/biograf/biograf/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(Options{
		PersonsDir: filepath.Join(dir, "persons"),
		BackupDir:  filepath.Join(dir, "backups"),
		ArchiveDir: filepath.Join(dir, "archive"),
		Generator:  NewSeededGenerator(FormatGEDCOM, 42),
	})
	require.NoError(t, err)

	// Tick the clock one second per backup so timestamps order reliably.
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func johannFields() Fields {
	return Fields{
		GivenNames: "Johann",
		Surname:    "Johnson",
		Gender:     "Male",
		BirthYear:  1825,
		BirthPlace: "Harvey, ND",
		FatherName: "Hans Johnson",
		Sources:    []string{"census_1850.pdf"},
	}
}

func countYAMLFiles(t *testing.T, dir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	return len(matches)
}

func TestCreateAndRead(t *testing.T) {
	s := newTestStore(t)

	created, isNew, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	require.True(t, isNew)
	assert.Regexp(t, `^I382\d{9}$`, created.PersonID)
	assert.Equal(t, "Johann Johnson", created.FullName, "full_name must be derived")
	assert.Equal(t, CurrentSchemaVersion, created.SchemaVersion)

	got, err := s.Read(created.PersonID)
	require.NoError(t, err)
	assert.Equal(t, created.PersonID, got.PersonID)
	assert.Equal(t, "Johann Johnson", got.FullName)
	assert.Equal(t, 1825, got.BirthYear)
	assert.Equal(t, "Harvey, ND", got.BirthPlace)
	assert.Equal(t, "Hans Johnson", got.FatherName)
	assert.Equal(t, []string{"census_1850.pdf"}, got.Sources)
}

func TestCreateIsIdempotentForNearIdenticalInput(t *testing.T) {
	s := newTestStore(t)

	first, isNew, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	require.True(t, isNew)

	second, isNew, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	assert.False(t, isNew, "identical input must not create a second record")
	assert.Equal(t, first.PersonID, second.PersonID)
	assert.Equal(t, 1, countYAMLFiles(t, s.PersonsDir()), "exactly one document on disk")
}

func TestCreateStrictModeSurfacesDuplicate(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	_, _, err = s.Create(johannFields(), CreateOptions{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err), "want duplicate kind, got %v", err)
	assert.Equal(t, 1, countYAMLFiles(t, s.PersonsDir()))
}

func TestCreateSkipDuplicateCheck(t *testing.T) {
	s := newTestStore(t)

	first, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	second, isNew, err := s.Create(johannFields(), CreateOptions{SkipDuplicateCheck: true})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, first.PersonID, second.PersonID)
	assert.Equal(t, 2, countYAMLFiles(t, s.PersonsDir()))
}

func TestCreateRequiresNameComponents(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Create(Fields{GivenNames: "Johann"}, CreateOptions{})
	assert.Error(t, err)
	_, _, err = s.Create(Fields{Surname: "Johnson"}, CreateOptions{})
	assert.Error(t, err)
}

func TestCreateWithExplicitID(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{PersonID: "I382000000001"})
	require.NoError(t, err)
	assert.Equal(t, "I382000000001", p.PersonID)

	_, _, err = s.Create(Fields{GivenNames: "Other", Surname: "Person"},
		CreateOptions{PersonID: "I382000000001", SkipDuplicateCheck: true})
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))
}

func TestReadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read("I382999999999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestReadFindsRecordByEmbeddedIDNotFilename(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	// Rename so the filename carries no trace of the ID.
	renamed := filepath.Join(s.PersonsDir(), "zz_hand_renamed.yaml")
	require.NoError(t, os.Rename(p.Path, renamed))

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	assert.Equal(t, p.PersonID, got.PersonID)
	assert.Equal(t, renamed, got.Path)
}

func TestUpdateIdempotence(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	// Same values as on disk: no write, no backup.
	changed, err := s.Update(p.PersonID, map[string]any{"vital_events.birth.year": 1825})
	require.NoError(t, err)
	assert.False(t, changed)

	backups, err := s.ListBackups(p.PersonID)
	require.NoError(t, err)
	assert.Empty(t, backups, "a no-op update must not create a backup")

	// A real change writes and backs up.
	changed, err = s.Update(p.PersonID, map[string]any{"vital_events.birth.date": "1825-03-01"})
	require.NoError(t, err)
	assert.True(t, changed)

	backups, err = s.ListBackups(p.PersonID)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	assert.Equal(t, "1825-03-01", got.BirthDate)
}

func TestUpdateCreatesNestedPaths(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(Fields{GivenNames: "Anna", Surname: "Berg"}, CreateOptions{})
	require.NoError(t, err)

	changed, err := s.Update(p.PersonID, map[string]any{
		"vital_events.death.year":  1890,
		"vital_events.death.place": "Bismarck, ND",
	})
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	year, ok := docio.NodeInt(GetPath(got.Doc, "vital_events.death.year"))
	require.True(t, ok, "intermediate mappings must be created on demand")
	assert.Equal(t, 1890, year)
	place, _ := docio.NodeString(GetPath(got.Doc, "vital_events.death.place"))
	assert.Equal(t, "Bismarck, ND", place)
}

func TestUpdateRederivesFullName(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(Fields{GivenNames: "Anna", Surname: "Berg"}, CreateOptions{})
	require.NoError(t, err)

	changed, err := s.Update(p.PersonID, map[string]any{"name.surname": "Lindgren"})
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	assert.Equal(t, "Anna Lindgren", got.FullName, "full_name recomputes on every write")
}

func TestUpdateRejectsPersonIDChange(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	_, err = s.Update(p.PersonID, map[string]any{"person_id": "I382000000002"})
	require.Error(t, err)

	backups, err := s.ListBackups(p.PersonID)
	require.NoError(t, err)
	assert.Empty(t, backups, "rejected update must not touch disk")
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update("I382999999999", map[string]any{"notes": "x"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDeleteArchiveThenRestore(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	before, err := os.ReadFile(p.Path)
	require.NoError(t, err)

	require.NoError(t, s.Delete(p.PersonID, true))

	_, err = s.Read(p.PersonID)
	assert.True(t, errors.IsNotFoundError(err), "archived record is not live")
	assert.Equal(t, 1, countYAMLFiles(t, s.ArchiveDir()))

	restored, err := s.Restore(p.PersonID)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	after, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "restore recovers the pre-delete bytes")
	assert.Equal(t, 0, countYAMLFiles(t, s.ArchiveDir()), "restore clears the archived copy")
}

func TestDeletePermanentStillLeavesBackup(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(p.PersonID, false))
	assert.Equal(t, 0, countYAMLFiles(t, s.PersonsDir()))
	assert.Equal(t, 0, countYAMLFiles(t, s.ArchiveDir()))

	// Permanent delete never destroys the only copy: restore still works.
	restored, err := s.Restore(p.PersonID)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	assert.Equal(t, "Johann Johnson", got.FullName)
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Delete("I382999999999", true)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRestoreOnActiveRecordIsNoop(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	restored, err := s.Restore(p.PersonID)
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestRestoreWithoutBackupFails(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Restore("I382999999999")
	require.Error(t, err)
	assert.True(t, errors.IsNoBackupError(err))
}

func TestRestoreUsesNewestBackup(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	// First backup snapshots the original, second snapshots the update.
	_, err = s.Update(p.PersonID, map[string]any{"notes": "first revision"})
	require.NoError(t, err)
	_, err = s.Update(p.PersonID, map[string]any{"notes": "second revision"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(p.PersonID, false))

	restored, err := s.Restore(p.PersonID)
	require.NoError(t, err)
	require.True(t, restored)

	got, err := s.Read(p.PersonID)
	require.NoError(t, err)
	assert.Equal(t, "second revision", got.Notes)
}

func TestListBackupsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)

	for _, note := range []string{"one", "two", "three"} {
		_, err = s.Update(p.PersonID, map[string]any{"notes": note})
		require.NoError(t, err)
	}

	backups, err := s.ListBackups(p.PersonID)
	require.NoError(t, err)
	require.Len(t, backups, 3)
	for i := 1; i < len(backups); i++ {
		assert.False(t, backups[i-1].Timestamp.Before(backups[i].Timestamp),
			"backups must be ordered newest first")
	}
	assert.Equal(t, p.PersonID, backups[0].PersonID)
	assert.Contains(t, backups[0].Fragment, "Johann")
}

func TestIDsAreNeverReusedAfterDeletion(t *testing.T) {
	s := newTestStore(t)
	s.gen = NewSeededGenerator(FormatGEDCOM, 7)

	p, _, err := s.Create(Fields{GivenNames: "Anna", Surname: "Berg"},
		CreateOptions{SkipDuplicateCheck: true})
	require.NoError(t, err)
	firstID := p.PersonID

	require.NoError(t, s.Delete(firstID, false))

	// Same seed would reproduce the same candidate sequence; the backup
	// history must force the generator past the dead ID.
	s.gen = NewSeededGenerator(FormatGEDCOM, 7)
	q, _, err := s.Create(Fields{GivenNames: "Anna", Surname: "Berg"},
		CreateOptions{SkipDuplicateCheck: true})
	require.NoError(t, err)
	assert.NotEqual(t, firstID, q.PersonID)
}

func TestCorruptDocumentDoesNotAbortScan(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	bad := filepath.Join(s.PersonsDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("person_id: [unclosed"), 0o644))

	results := s.SearchAll(Criteria{Surname: "Johnson"}, true, 80)
	require.Len(t, results, 1, "corrupt neighbor must not hide valid records")
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	p, _, err := s.Create(johannFields(), CreateOptions{})
	require.NoError(t, err)
	_, _, err = s.Create(Fields{GivenNames: "Anna", Surname: "Berg"}, CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, s.Delete(p.PersonID, true))

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Live)
	assert.Equal(t, 1, st.Archived)
	assert.Equal(t, 1, st.Backups)
}
