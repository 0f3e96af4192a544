package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags is an ordered list of tag strings stored as a JSON array in a single
// text column, so the same schema works on SQLite, Postgres, and MySQL.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		return t.unmarshal(v)
	case string:
		return t.unmarshal([]byte(v))
	default:
		return fmt.Errorf("tags: cannot scan %T", src)
	}
}

func (t *Tags) unmarshal(b []byte) error {
	if len(b) == 0 {
		*t = Tags{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}
