package parse

import (
	"encoding/json"
	"strconv"
	"strings"
)

// iRail encodes most scalar values as JSON strings ("time": "1700000000",
// "delay": "60"). The flexible types below accept numbers and strings
// interchangeably. They never fail the enclosing document decode: a
// malformed value marks the field invalid, and it is up to the caller
// to decide whether that sinks the record.

// Int is an integer that may arrive as a JSON number or string.
type Int struct {
	value int64
	valid bool
}

func (n *Int) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		n.valid = false
		return nil
	}
	n.value = v
	n.valid = true
	return nil
}

// Value returns the integer and whether it was present and numeric.
func (n Int) Value() (int64, bool) {
	return n.value, n.valid
}

// Or returns the integer, or def if it was absent or malformed.
func (n Int) Or(def int64) int64 {
	if !n.valid {
		return def
	}
	return n.value
}

// Float is a float that may arrive as a JSON number or string.
type Float struct {
	value float64
	valid bool
}

func (f *Float) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.valid = false
		return nil
	}
	f.value = v
	f.valid = true
	return nil
}

// Ptr returns the value as a nullable float.
func (f Float) Ptr() *float64 {
	if !f.valid {
		return nil
	}
	v := f.value
	return &v
}

// String is a string that may arrive as a JSON string or number.
type String struct {
	value string
}

func (s *String) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.value = str
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		s.value = num.String()
		return nil
	}
	s.value = ""
	return nil
}

func (s String) Value() string {
	return s.value
}
