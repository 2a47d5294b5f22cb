package docio

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/biograf/biograf/errors"
)

// Checksum returns the hex-encoded SHA-256 digest of the file at path,
// streaming the content rather than loading it whole.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WrapIO(err, "open file for checksum")
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, 8192)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.WrapIO(err, "read file for checksum")
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumBytes returns the hex-encoded SHA-256 digest of data. Used to
// compare a would-be document against the current one without writing.
func ChecksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
