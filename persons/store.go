package persons

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/biograf/biograf/docio"
	"github.com/biograf/biograf/errors"
	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/match"
)

// DuplicatePolicy decides what Create does when an existing record scores
// at or above the dedup threshold.
type DuplicatePolicy int

const (
	// DuplicateReturnExisting makes Create idempotent: the existing record
	// is returned and nothing is written.
	DuplicateReturnExisting DuplicatePolicy = iota
	// DuplicateError surfaces the collision as an error so the caller can
	// decide, instead of silently merging.
	DuplicateError
)

const (
	// DefaultDedupThreshold is the confidence at or above which a candidate
	// is treated as the same underlying person.
	DefaultDedupThreshold = 95
	// DefaultWarnThreshold is the confidence at or above which Create logs
	// a potential duplicate but still proceeds.
	DefaultWarnThreshold = 85
)

// Options configures a Store. PersonsDir is required; the backup and
// archive directories default to siblings of it.
type Options struct {
	PersonsDir string
	BackupDir  string
	ArchiveDir string

	Matcher   *match.Matcher
	Generator *Generator

	DedupThreshold int
	WarnThreshold  int
	Policy         DuplicatePolicy

	Logger *zap.SugaredLogger
}

// Store orchestrates person CRUD over a directory of YAML documents. It
// holds no record state between operations: every call reads fresh from
// disk, mutates in memory, persists atomically, and discards.
type Store struct {
	personsDir string
	backupDir  string
	archiveDir string

	matcher *match.Matcher
	gen     *Generator

	dedupThreshold int
	warnThreshold  int
	policy         DuplicatePolicy

	log *zap.SugaredLogger
	now func() time.Time
}

// Open prepares the three storage roots and returns a ready store.
func Open(opts Options) (*Store, error) {
	if opts.PersonsDir == "" {
		return nil, errors.New("persons directory is required")
	}
	parent := filepath.Dir(opts.PersonsDir)
	if opts.BackupDir == "" {
		opts.BackupDir = filepath.Join(parent, "backups")
	}
	if opts.ArchiveDir == "" {
		opts.ArchiveDir = filepath.Join(parent, "archive")
	}
	if opts.Matcher == nil {
		opts.Matcher = match.New(match.Config{})
	}
	if opts.Generator == nil {
		opts.Generator = NewGenerator(FormatGEDCOM)
	}
	if opts.DedupThreshold == 0 {
		opts.DedupThreshold = DefaultDedupThreshold
	}
	if opts.WarnThreshold == 0 {
		opts.WarnThreshold = DefaultWarnThreshold
	}
	if opts.Logger == nil {
		opts.Logger = logger.ComponentLogger(logger.ComponentStore)
	}

	for _, dir := range []string{opts.PersonsDir, opts.BackupDir, opts.ArchiveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WrapIO(err, "create storage directory")
		}
	}

	s := &Store{
		personsDir:     opts.PersonsDir,
		backupDir:      opts.BackupDir,
		archiveDir:     opts.ArchiveDir,
		matcher:        opts.Matcher,
		gen:            opts.Generator,
		dedupThreshold: opts.DedupThreshold,
		warnThreshold:  opts.WarnThreshold,
		policy:         opts.Policy,
		log:            opts.Logger,
		now:            time.Now,
	}
	s.log.Debugw("store opened",
		logger.FieldPath, s.personsDir,
		"backup_dir", s.backupDir,
		"archive_dir", s.archiveDir)
	return s, nil
}

// PersonsDir returns the live document root.
func (s *Store) PersonsDir() string { return s.personsDir }

// BackupDir returns the backup root.
func (s *Store) BackupDir() string { return s.backupDir }

// ArchiveDir returns the archive root.
func (s *Store) ArchiveDir() string { return s.archiveDir }

// Matcher returns the similarity engine the store scores with.
func (s *Store) Matcher() *match.Matcher { return s.matcher }

// CreateOptions tunes a single Create call.
type CreateOptions struct {
	// PersonID sets an explicit identifier instead of generating one.
	PersonID string
	// SkipDuplicateCheck creates unconditionally.
	SkipDuplicateCheck bool
	// Threshold overrides the store's dedup threshold when non-zero.
	Threshold int
	// Strict forces DuplicateError for this call regardless of the store
	// policy.
	Strict bool
}

// Create builds and persists a new person record. Unless disabled, every
// existing record is scored against the candidate first; at or above the
// dedup threshold the duplicate policy decides between returning the
// existing record (created=false) and failing with a duplicate error.
func (s *Store) Create(fields Fields, opts CreateOptions) (*Person, bool, error) {
	if strings.TrimSpace(fields.GivenNames) == "" || strings.TrimSpace(fields.Surname) == "" {
		return nil, false, errors.New("given names and surname are required")
	}

	if !opts.SkipDuplicateCheck {
		threshold := opts.Threshold
		if threshold <= 0 {
			threshold = s.dedupThreshold
		}
		existing, confidence, err := s.findDuplicate(fields)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			switch {
			case confidence >= threshold:
				if opts.Strict || s.policy == DuplicateError {
					return nil, false, errors.NewDuplicatef(
						"person %s (%s) already matches at %d%% confidence",
						existing.PersonID, existing.FullName, confidence)
				}
				s.log.Infow("returning existing person for near-identical create",
					logger.FieldPersonID, existing.PersonID,
					logger.FieldConfidence, confidence,
					logger.FieldThreshold, threshold)
				return existing, false, nil
			case confidence >= s.warnThreshold:
				s.log.Warnw("potential duplicate below merge threshold",
					logger.FieldPersonID, existing.PersonID,
					logger.FieldFullName, existing.FullName,
					logger.FieldConfidence, confidence)
			}
		}
	}

	personID := opts.PersonID
	if personID == "" {
		id, err := s.gen.Generate(s.idExists)
		if err != nil {
			return nil, false, err
		}
		personID = id
	} else if s.idExists(personID) {
		return nil, false, errors.NewDuplicatef("person %s already exists", personID)
	}

	doc := newDocument(personID, fields)
	if issues := ValidateDocument(doc); HasErrors(issues) {
		return nil, false, errors.Newf("invalid person data: %s", joinIssues(issues))
	}

	path := filepath.Join(s.personsDir, documentFilename(personID, fields.GivenNames, fields.Surname))
	if fileExists(path) {
		return nil, false, errors.NewDuplicatef("person file already exists: %s", path)
	}

	if err := docio.Save(doc, path); err != nil {
		return nil, false, err
	}

	p := FromDocument(doc, path)
	s.log.Infow("created person",
		logger.FieldPersonID, personID,
		logger.FieldFullName, p.FullName,
		logger.FieldPath, path)
	return p, true, nil
}

// findDuplicate scores every live record against the candidate fields and
// returns the best match with its confidence, or nil when the store is
// empty or nothing resembles the candidate.
func (s *Store) findDuplicate(fields Fields) (*Person, int, error) {
	candidate := match.Candidate{
		GivenNames: fields.GivenNames,
		Surname:    fields.Surname,
		Alternates: fields.Alternates,
		BirthYear:  fields.BirthYear,
		BirthPlace: fields.BirthPlace,
		FatherName: fields.FatherName,
		MotherName: fields.MotherName,
	}

	var best *Person
	bestConfidence := 0
	err := s.forEachPerson(func(p *Person) bool {
		// Walk order is ascending filename, so ties keep the lowest ID.
		if confidence := s.matcher.Confidence(candidate, p.Candidate()); confidence > bestConfidence {
			best = p
			bestConfidence = confidence
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	if best == nil || bestConfidence == 0 {
		return nil, 0, nil
	}
	return best, bestConfidence, nil
}

// Read loads a person by ID. The embedded person_id field is authoritative;
// filenames are only a fast path.
func (s *Store) Read(personID string) (*Person, error) {
	path, err := s.locate(personID)
	if err != nil {
		return nil, err
	}
	doc, err := docio.Load(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, path), nil
}

// Update applies a patch of dotted-path assignments. When the patched
// document is checksum-identical to the current one, nothing is written and
// no backup is taken; the call reports false. A real change always takes a
// verified backup before the atomic write.
func (s *Store) Update(personID string, patch map[string]any) (bool, error) {
	if len(patch) == 0 {
		return false, nil
	}

	path, err := s.locate(personID)
	if err != nil {
		return false, err
	}
	doc, err := docio.Load(path)
	if err != nil {
		return false, err
	}

	before, err := docio.Serialize(doc)
	if err != nil {
		return false, err
	}

	if err := ApplyPatch(doc, patch); err != nil {
		return false, err
	}
	DeriveComputedFields(doc)

	after, err := docio.Serialize(doc)
	if err != nil {
		return false, err
	}
	if docio.ChecksumBytes(after) == docio.ChecksumBytes(before) {
		s.log.Infow("update is a no-op, document unchanged",
			logger.FieldPersonID, personID)
		return false, nil
	}

	if issues := ValidateDocument(doc); HasErrors(issues) {
		return false, errors.Newf("update would invalidate document: %s", joinIssues(issues))
	}

	backupPath, err := s.backup(path)
	if err != nil {
		return false, err
	}
	if err := docio.WriteFileAtomic(path, after); err != nil {
		return false, err
	}

	s.log.Infow("updated person",
		logger.FieldPersonID, personID,
		logger.FieldCount, len(patch),
		logger.FieldBackup, filepath.Base(backupPath))
	return true, nil
}

// Delete removes a live record. With archive=true the document moves to the
// archive root and stays recoverable; otherwise it is erased. Either way a
// verified backup is taken first, so no delete destroys the only copy.
func (s *Store) Delete(personID string, archive bool) error {
	path, err := s.locate(personID)
	if err != nil {
		return err
	}

	backupPath, err := s.backup(path)
	if err != nil {
		return err
	}

	if archive {
		target := filepath.Join(s.archiveDir, filepath.Base(path))
		if err := os.Rename(path, target); err != nil {
			return errors.WrapIO(err, "archive document")
		}
		s.log.Infow("archived person",
			logger.FieldPersonID, personID,
			logger.FieldPath, target,
			logger.FieldBackup, filepath.Base(backupPath))
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errors.WrapIO(err, "remove document")
	}
	s.log.Infow("deleted person",
		logger.FieldPersonID, personID,
		logger.FieldBackup, filepath.Base(backupPath))
	return nil
}

// Restore brings a person back from the most recent backup. Restoring an
// active record is a no-op success; restoring with no backup history fails.
// The backup bytes are written verbatim, so the recovered document is
// identical to the last backed-up state.
func (s *Store) Restore(personID string) (bool, error) {
	if _, err := s.locate(personID); err == nil {
		s.log.Infow("person already active, nothing to restore",
			logger.FieldPersonID, personID)
		return false, nil
	} else if !errors.IsNotFoundError(err) {
		return false, err
	}

	backups, err := s.ListBackups(personID)
	if err != nil {
		return false, err
	}
	if len(backups) == 0 {
		return false, errors.Wrapf(errors.ErrNoBackup, "person %s", personID)
	}
	latest := backups[0]

	data, err := os.ReadFile(latest.Path)
	if err != nil {
		return false, errors.WrapIO(err, "read backup")
	}
	doc, err := docio.Parse(data)
	if err != nil {
		return false, errors.WithDetailf(err, "backup: %s", latest.Path)
	}
	if issues := ValidateDocument(doc); HasErrors(issues) {
		return false, errors.Newf("backup %s is not restorable: %s", latest.Filename(), joinIssues(issues))
	}

	p := FromDocument(doc, "")
	target := filepath.Join(s.personsDir, documentFilename(personID, p.GivenNames, p.Surname))
	if err := docio.WriteFileAtomic(target, data); err != nil {
		return false, err
	}

	s.removeArchived(personID)

	s.log.Infow("restored person",
		logger.FieldPersonID, personID,
		logger.FieldBackup, latest.Filename(),
		logger.FieldPath, target)
	return true, nil
}

// ListBackups returns the backup history for a person, newest first.
func (s *Store) ListBackups(personID string) ([]BackupEntry, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO(err, "list backup directory")
	}

	prefix := personID + "_"
	var backups []BackupEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		entry := BackupEntry{
			PersonID: personID,
			Path:     filepath.Join(s.backupDir, e.Name()),
		}
		if stem, at, ok := docio.ParseBackupName(e.Name()); ok {
			entry.Fragment = strings.TrimPrefix(stem, prefix)
			entry.Timestamp = at
		} else if info, err := e.Info(); err == nil {
			// Foreign filename: fall back to filesystem time.
			entry.Fragment = strings.TrimSuffix(strings.TrimPrefix(e.Name(), prefix), filepath.Ext(e.Name()))
			entry.Timestamp = info.ModTime()
		}
		backups = append(backups, entry)
	}

	sortBackups(backups)
	return backups, nil
}

// Validate loads a person by ID and reports its structural issues.
func (s *Store) Validate(personID string) ([]Issue, error) {
	path, err := s.locate(personID)
	if err != nil {
		return nil, err
	}
	return ValidateFile(path), nil
}

// ValidateAll checks every live document. Per-file problems, including
// unparseable YAML, are reported in the result rather than aborting the
// scan. With skipValid, clean files are omitted. limit <= 0 means no limit.
func (s *Store) ValidateAll(limit int, skipValid bool) (map[string][]Issue, error) {
	entries, err := os.ReadDir(s.personsDir)
	if err != nil {
		return nil, errors.WrapIO(err, "list persons directory")
	}

	results := make(map[string][]Issue)
	seen := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		if limit > 0 && seen >= limit {
			break
		}
		seen++
		path := filepath.Join(s.personsDir, e.Name())
		issues := ValidateFile(path)
		if !skipValid || len(issues) > 0 {
			results[path] = issues
		}
	}
	return results, nil
}

// Fix repairs every fixable issue on a record: normalizes schema_version
// and re-derives full_name. Returns false when there was nothing to fix.
func (s *Store) Fix(personID string) (bool, error) {
	path, err := s.locate(personID)
	if err != nil {
		return false, err
	}
	doc, err := docio.Load(path)
	if err != nil {
		return false, err
	}

	issues := ValidateDocument(doc)
	if !HasFixable(issues) {
		return false, nil
	}
	applyFixes(doc, issues)

	data, err := docio.Serialize(doc)
	if err != nil {
		return false, err
	}
	backupPath, err := s.backup(path)
	if err != nil {
		return false, err
	}
	if err := docio.WriteFileAtomic(path, data); err != nil {
		return false, err
	}

	s.log.Infow("fixed person document",
		logger.FieldPersonID, personID,
		logger.FieldCount, len(issues),
		logger.FieldBackup, filepath.Base(backupPath))
	return true, nil
}

// ValidateFile validates a single document file. Read and parse failures
// become ERROR issues so bulk scans can accumulate instead of aborting.
func ValidateFile(path string) []Issue {
	doc, err := docio.Load(path)
	if err != nil {
		if errors.IsCorruptDocumentError(err) {
			return []Issue{{Severity: SeverityError, Message: "invalid YAML syntax: " + errors.UnwrapAll(err).Error()}}
		}
		return []Issue{{Severity: SeverityError, Message: "failed to read file: " + err.Error()}}
	}
	return ValidateDocument(doc)
}

// Stats summarizes the storage roots for status reporting.
type Stats struct {
	Live     int `json:"live"`
	Archived int `json:"archived"`
	Backups  int `json:"backups"`
}

// Stats counts documents per storage root.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	var err error
	if st.Live, err = countFiles(s.personsDir, ".yaml"); err != nil {
		return st, err
	}
	if st.Archived, err = countFiles(s.archiveDir, ".yaml"); err != nil {
		return st, err
	}
	if st.Backups, err = countFiles(s.backupDir, ""); err != nil {
		return st, err
	}
	return st, nil
}

// backup snapshots path into the backup root and verifies the copy. Every
// mutating operation calls this before touching the live file.
func (s *Store) backup(path string) (string, error) {
	backupPath, err := docio.CreateBackup(path, s.backupDir, s.now())
	if err != nil {
		return "", err
	}
	if err := docio.VerifyBackup(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

// locate resolves a person ID to its live document path. Filename prefixes
// are tried first, but only the embedded person_id decides; renamed files
// are still found by the full scan.
func (s *Store) locate(personID string) (string, error) {
	if personID == "" {
		return "", errors.Wrap(errors.ErrNotFound, "empty person id")
	}

	pattern := filepath.Join(s.personsDir, personID+"_*.yaml")
	fastMatches, _ := filepath.Glob(pattern)
	if len(fastMatches) > 1 {
		s.log.Warnw("multiple files share an id prefix, using first",
			logger.FieldPersonID, personID,
			logger.FieldCount, len(fastMatches))
	}
	for _, path := range fastMatches {
		if s.embeddedID(path) == personID {
			return path, nil
		}
	}

	var found string
	err := s.forEachPerson(func(p *Person) bool {
		if p.PersonID == personID {
			found = p.Path
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", errors.NewNotFoundf("person %s", personID)
	}
	return found, nil
}

// embeddedID reads just the person_id of a document, or "" when the file
// cannot be parsed.
func (s *Store) embeddedID(path string) string {
	doc, err := docio.Load(path)
	if err != nil {
		return ""
	}
	id, _ := docio.NodeString(docio.MapGet(doc, "person_id"))
	return id
}

// idExists reports whether an identifier is already taken anywhere: live,
// archived, or in backup history. IDs are never reused after deletion.
func (s *Store) idExists(personID string) bool {
	if _, err := s.locate(personID); err == nil {
		return true
	}
	for _, dir := range []string{s.archiveDir, s.backupDir} {
		matches, _ := filepath.Glob(filepath.Join(dir, personID+"_*"))
		if len(matches) > 0 {
			return true
		}
	}
	return false
}

// forEachPerson walks the live documents in filename order, invoking fn for
// each parseable one. Corrupt documents are logged and skipped so one bad
// file never aborts a scan. fn returning false stops the walk early.
func (s *Store) forEachPerson(fn func(p *Person) bool) error {
	entries, err := os.ReadDir(s.personsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO(err, "list persons directory")
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(s.personsDir, e.Name())
		doc, err := docio.Load(path)
		if err != nil {
			s.log.Warnw("skipping unreadable document",
				logger.FieldPath, path,
				logger.FieldError, err)
			continue
		}
		if !fn(FromDocument(doc, path)) {
			return nil
		}
	}
	return nil
}

// removeArchived drops a stale archive copy after a successful restore,
// completing the archived-to-active transition. Best effort.
func (s *Store) removeArchived(personID string) {
	matches, _ := filepath.Glob(filepath.Join(s.archiveDir, personID+"_*.yaml"))
	for _, path := range matches {
		doc, err := docio.Load(path)
		if err != nil {
			continue
		}
		if id, _ := docio.NodeString(docio.MapGet(doc, "person_id")); id != personID {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.log.Warnw("could not remove archived copy",
				logger.FieldPath, path,
				logger.FieldError, err)
			continue
		}
		s.log.Debugw("removed archived copy", logger.FieldPath, path)
	}
}

func joinIssues(issues []Issue) string {
	var errs []string
	for _, i := range issues {
		if i.Severity == SeverityError {
			errs = append(errs, i.Message)
		}
	}
	return strings.Join(errs, "; ")
}

func sortBackups(backups []BackupEntry) {
	// Newest first; same-second backups order by the name counter.
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})
}

func countFiles(dir, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.WrapIO(err, "count files")
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext == "" || strings.HasSuffix(e.Name(), ext) {
			n++
		}
	}
	return n, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
