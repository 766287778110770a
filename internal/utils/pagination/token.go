package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EntryCursor is the position of the last journal entry on a page.
// Listing is ordered by (entry_date, created_at, entry_id) descending.
type EntryCursor struct {
	EntryDate time.Time
	CreatedAt time.Time
	EntryID   string
}

// EncodeToken creates an opaque base64 token from a cursor.
func EncodeToken(c EntryCursor) string {
	tokenStr := strings.Join([]string{c.EntryDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.EntryID}, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (EntryCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return EntryCursor{EntryDate: entryDate, CreatedAt: createdAt, EntryID: parts[2]}, nil
}

// After reports whether an entry at (entryDate, createdAt, entryID) sorts after
// the cursor in descending order, i.e. belongs on the next page.
func (c EntryCursor) After(entryDate, createdAt time.Time, entryID string) bool {
	if !entryDate.Equal(c.EntryDate) {
		return entryDate.Before(c.EntryDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return entryID < c.EntryID
}
