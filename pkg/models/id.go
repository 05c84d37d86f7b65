package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a catalog record identifier. The admin API is not consistent about
// its encoding (categories and types come back as JSON numbers, users as
// strings), so decoding accepts both.
type ID int64

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = 0
		return nil
	}

	raw = strings.Trim(raw, `"`)
	if raw == "" {
		*id = 0
		return nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*id = ID(n)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", raw, err)
	}
	*id = ID(f)
	return nil
}

// ParseID parses a command-line or form id value
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}

// IsZero reports whether the id is unset
func (id ID) IsZero() bool {
	return id == 0
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Ref is an id+name reference to another record, as embedded in lists
// (a video's categories, a category's content types).
type Ref struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// RefIDs returns the ids of refs in order
func RefIDs(refs []Ref) []int64 {
	ids := make([]int64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, int64(r.ID))
	}
	return ids
}
