package persons

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/biograf/biograf/errors"
)

// IDFormat selects the identifier namespace for generated person IDs.
type IDFormat string

const (
	// FormatGEDCOM produces GEDCOM-style IDs: I382 plus nine random digits.
	FormatGEDCOM IDFormat = "gedcom"
	// FormatGFR produces GFR-prefixed IDs with a short random hex suffix.
	FormatGFR IDFormat = "gfr"
	// FormatCustom produces PERSON-prefixed IDs for ad-hoc datasets.
	FormatCustom IDFormat = "custom"
	// FormatCompact produces short base58 IDs for space-sensitive layouts.
	FormatCompact IDFormat = "compact"
)

// ParseIDFormat validates a configured format name.
func ParseIDFormat(s string) (IDFormat, error) {
	switch IDFormat(s) {
	case FormatGEDCOM, FormatGFR, FormatCustom, FormatCompact:
		return IDFormat(s), nil
	case "":
		return FormatGEDCOM, nil
	}
	return "", errors.Newf("unknown id format %q (want gedcom, gfr, custom, or compact)", s)
}

// maxIDAttempts bounds collision retries before Generate reports the
// identifier space as exhausted.
const maxIDAttempts = 100

// Generator produces collision-free person identifiers. The production
// generator draws from non-deterministic sources so separate processes do
// not collide without coordination; seeded generators exist for tests.
type Generator struct {
	format IDFormat
	rng    *rand.Rand
}

// NewGenerator returns a non-deterministic generator for the given format.
func NewGenerator(format IDFormat) *Generator {
	return &Generator{format: format}
}

// NewSeededGenerator returns a deterministic generator. Test use only.
func NewSeededGenerator(format IDFormat, seed uint64) *Generator {
	return &Generator{format: format, rng: rand.New(rand.NewPCG(seed, seed))}
}

// Generate returns a fresh identifier not present per the exists probe,
// retrying on collision up to maxIDAttempts before failing.
func (g *Generator) Generate(exists func(id string) bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := g.newID()
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return "", errors.Wrapf(errors.ErrIDExhausted,
		"no unused %s identifier after %d attempts", g.format, maxIDAttempts)
}

func (g *Generator) newID() string {
	switch g.format {
	case FormatGFR:
		return "GFR-" + g.hex8()
	case FormatCustom:
		return "PERSON-" + g.hex8()
	case FormatCompact:
		return "P" + base58.Encode(g.randomBytes(6))
	default:
		return fmt.Sprintf("I382%d", 100000000+g.intN(900000000))
	}
}

func (g *Generator) hex8() string {
	return hex.EncodeToString(g.randomBytes(4))
}

func (g *Generator) randomBytes(n int) []byte {
	if g.rng == nil {
		u := uuid.New()
		return u[:n]
	}
	buf := make([]byte, (n+7)/8*8)
	for i := 0; i < len(buf); i += 8 {
		binary.BigEndian.PutUint64(buf[i:], g.rng.Uint64())
	}
	return buf[:n]
}

func (g *Generator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}
