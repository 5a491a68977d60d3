// Package reference generates and validates the public reference numbers
// that identify submissions. Format: REF-<timestamp>-<random>, where the
// timestamp is the current Unix millisecond count in lowercase base 36 and
// the random part is 6 uppercase base-36 characters.
package reference

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	prefix     = "REF"
	randomLen  = 6
	base36Up   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// Example: REF-1a2b3c4d-EFGHIJ
)

var pattern = regexp.MustCompile(`^REF-[a-z0-9]+-[A-Z0-9]+$`)

// Generate returns a new reference number. Uniqueness is probabilistic:
// the timestamp separates sequential calls at millisecond granularity and
// the random suffix covers same-millisecond collisions. Callers persisting
// the reference must still reject a duplicate key at the store.
func Generate() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(timestamp) + 1 + randomLen)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(timestamp)
	b.WriteByte('-')
	for i := 0; i < randomLen; i++ {
		b.WriteByte(base36Up[rand.Intn(len(base36Up))])
	}
	return b.String()
}

// IsValid checks a candidate string against the exact generation pattern:
// literal "REF-", one or more lowercase alphanumerics, "-", one or more
// uppercase alphanumerics. Used for user-typed lookups and as a defensive
// check before any write.
func IsValid(ref string) bool {
	return pattern.MatchString(ref)
}
