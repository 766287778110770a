package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := EntryCursor{
		EntryDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		EntryID:   "3f0d5a7e-0000-4000-8000-000000000001",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token)

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.EntryDate.Equal(decoded.EntryDate))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.EntryID, decoded.EntryID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, err = DecodeToken(noSeparator)
	assert.ErrorContains(t, err, "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45Z|abc"))
	_, err = DecodeToken(badDate)
	assert.ErrorContains(t, err, "entry date parse")

	badCreated := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|nope|abc"))
	_, err = DecodeToken(badCreated)
	assert.ErrorContains(t, err, "created_at parse")
}

func TestEntryCursorAfter(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := day.Add(time.Hour)
	c := EntryCursor{EntryDate: day, CreatedAt: created, EntryID: "m"}

	assert.True(t, c.After(day.AddDate(0, 0, -1), created, "z"), "older date comes next")
	assert.False(t, c.After(day.AddDate(0, 0, 1), created, "a"), "newer date was already served")
	assert.True(t, c.After(day, created.Add(-time.Minute), "z"))
	assert.True(t, c.After(day, created, "a"))
	assert.False(t, c.After(day, created, "m"), "the cursor row itself is excluded")
}
