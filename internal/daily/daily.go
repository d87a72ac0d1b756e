// Package daily picks the deterministic daily sequence and records
// daily-challenge results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SequenceIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func SequenceIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns today's sequence and its index from a preset's daily list.
func Pick(date time.Time, salt string, sequences []string) (string, int) {
	if len(sequences) == 0 {
		return "", 0
	}
	i := SequenceIndex(date, salt, len(sequences))
	return sequences[i], i
}
