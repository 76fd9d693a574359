// Package models - structured editable_fields column
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// FieldDescriptor describes one placeholder a document may fill in.
type FieldDescriptor struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FieldList is the set of editable fields on a template. In process it is
// a typed slice; it serializes to JSON text only at the persistence
// boundary.
type FieldList []FieldDescriptor

// Value implements the driver.Valuer interface.
func (f FieldList) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface.
func (f *FieldList) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for FieldList")
	}

	if len(bytes) == 0 {
		*f = make(FieldList, 0)
		return nil
	}

	result := make(FieldList, 0)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*f = result
	return nil
}
