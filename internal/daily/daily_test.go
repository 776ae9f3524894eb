package daily

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDateKeyUsesUTC(t *testing.T) {
	is := is.New(t)
	loc := time.FixedZone("UTC+10", 10*60*60)
	tm := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	is.Equal(DateKey(tm), "2026-03-01")
}

func TestIndexDeterministic(t *testing.T) {
	is := is.New(t)
	day := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a := Index(day, "salt", 7)
	is.Equal(a, Index(later, "salt", 7)) // same date, same index
	is.True(a >= 0 && a < 7)

	for d := 0; d < 60; d++ {
		i := Index(day.AddDate(0, 0, d), "salt", 5)
		is.True(i >= 0 && i < 5)
	}
	is.Equal(Index(day, "salt", 0), 0)
	is.Equal(Index(day, "salt", 1), 0)
}
