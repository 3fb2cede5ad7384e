package shared

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StringList is stored as a JSON array in a text column
type StringList []string

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value any) error {
	return scanJSONList(value, l)
}

// Value implements the driver.Valuer interface
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

// UUIDList is stored as a JSON array in a text column
type UUIDList []uuid.UUID

// Scan implements the sql.Scanner interface
func (l *UUIDList) Scan(value any) error {
	return scanJSONList(value, l)
}

// Value implements the driver.Valuer interface
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uuid.UUID(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSONList(value, dest any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("shared: cannot scan type %T into list", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
