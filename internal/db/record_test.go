package db

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Float(t *testing.T) {
	r := Record{"f": 1.5, "i": 2, "i64": int64(3), "s": "0.25", "bad": "x"}
	assert.Equal(t, 1.5, r.Float("f", 0))
	assert.Equal(t, 2.0, r.Float("i", 0))
	assert.Equal(t, 3.0, r.Float("i64", 0))
	assert.Equal(t, 0.25, r.Float("s", 0))
	assert.Equal(t, 9.0, r.Float("bad", 9))
	assert.Equal(t, 9.0, r.Float("missing", 9))
	assert.Equal(t, 1, r.Int("f", 0), "Int truncates")
}

func TestRecord_TimeIn(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	r := Record{
		"naive": "2024-06-10T09:00:00",
		"date":  "2024-06-10",
		"zoned": "2024-06-10T09:00:00Z",
	}

	got, ok := r.TimeIn("naive", seoul)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)), got)

	got, ok = r.TimeIn("date", seoul)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 6, 9, 15, 0, 0, 0, time.UTC)), got)

	got, ok = r.TimeIn("zoned", seoul)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)), "an explicit zone wins")

	got, ok = r.Time("naive")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)), "Time reads naive values as UTC")
}
