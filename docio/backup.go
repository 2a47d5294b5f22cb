package docio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/biograf/biograf/errors"
)

// backupTimeLayout gives second-level resolution; rapid successive backups
// within the same second are disambiguated with a numeric suffix.
const backupTimeLayout = "20060102_150405"

// CreateBackup copies the current on-disk state of path into backupDir,
// naming the copy after the original filename plus a timestamp. An existing
// backup is never overwritten. Returns the backup path.
func CreateBackup(path, backupDir string, at time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapIO(err, "read document for backup")
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", errors.WrapIO(err, "create backup directory")
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	stamp := at.Format(backupTimeLayout)

	target := filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
	for n := 1; fileExists(target); n++ {
		target = filepath.Join(backupDir, fmt.Sprintf("%s_%s_%d%s", stem, stamp, n, ext))
	}

	if err := WriteFileAtomic(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// VerifyBackup confirms a backup is byte-identical to its source by
// comparing content checksums.
func VerifyBackup(srcPath, backupPath string) error {
	srcSum, err := Checksum(srcPath)
	if err != nil {
		return err
	}
	bakSum, err := Checksum(backupPath)
	if err != nil {
		return err
	}
	if srcSum != bakSum {
		return errors.Newf("backup checksum mismatch: %s != %s", bakSum, srcSum)
	}
	return nil
}

// ParseBackupName splits a backup filename into the original document stem
// and the backup timestamp. Returns ok=false for names this package did
// not produce.
func ParseBackupName(name string) (stem string, at time.Time, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")

	// Layout is stem_YYYYMMDD_HHMMSS with an optional trailing counter, so
	// the timestamp sits in the last two or the two before a counter.
	for _, tail := range []int{0, 1} {
		idx := len(parts) - 2 - tail
		if idx < 1 {
			continue
		}
		if tail == 1 {
			if _, err := strconv.Atoi(parts[len(parts)-1]); err != nil {
				continue
			}
		}
		candidate := parts[idx] + "_" + parts[idx+1]
		t, err := time.ParseInLocation(backupTimeLayout, candidate, time.Local)
		if err != nil {
			continue
		}
		return strings.Join(parts[:idx], "_"), t, true
	}
	return "", time.Time{}, false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
