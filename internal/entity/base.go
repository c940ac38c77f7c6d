package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Array is a slice persisted as a JSON column.
type Array[T any] []T

func (a *Array[T]) Scan(obj any) error {
	switch t := obj.(type) {
	case string:
		return json.Unmarshal([]byte(t), a)
	case []byte:
		return json.Unmarshal(t, a)
	}

	return fmt.Errorf("cannot scan invalid data type %T", obj)
}

func (a Array[T]) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a Array[T]) Contains(value any) bool {
	for i := range a {
		if any(a[i]) == value {
			return true
		}
	}

	return false
}

// IntMap is a string-to-int mapping persisted as a JSON column.
type IntMap map[string]int

func (m *IntMap) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), m)
	case []byte:
		return json.Unmarshal(t, m)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (m IntMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}
