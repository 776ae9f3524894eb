// Package daily picks the puzzle of the day.
//
// Every player sees the same preset on a given UTC date: the index is an
// HMAC of the date key under a server-side salt, reduced modulo the number
// of presets.
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

// Index picks the day's preset: a position in [0, n) into a preset set of
// length n, fixed for the UTC date of t and salt.
func Index(t time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}
