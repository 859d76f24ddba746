package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list column stored as a JSON array. Rows written
// before the switch to JSON hold comma separated text and are split on read.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	if l == nil {
		return fmt.Errorf("models.StringList: Scan on nil pointer")
	}
	if value == nil {
		*l = StringList{}
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.StringList: unsupported Scan type %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*l = StringList{}
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			*l = arr
			return nil
		}
	}

	*l = SplitLegacyList(raw)
	return nil
}

// MarshalJSON renders a nil list as [] rather than null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// GormDataType keeps the column a plain text column on every dialect.
func (StringList) GormDataType() string {
	return "text"
}

// SplitLegacyList splits comma separated text, trimming whitespace and
// dropping empty entries.
func SplitLegacyList(s string) StringList {
	out := StringList{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
