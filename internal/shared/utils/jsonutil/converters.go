// Package jsonutil provides helpers for reading loosely typed JSON objects
// decoded into map[string]interface{}.
package jsonutil

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// String returns the first non-empty string value among keys.
// Non-string values are ignored.
//
// Example:
//
//	String(m, "locationId", "location_id")
func String(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Object returns the nested object stored at key, or nil.
func Object(m map[string]interface{}, key string) map[string]interface{} {
	obj, _ := m[key].(map[string]interface{})
	return obj
}

// Scalar returns the first present value among keys as a string. Strings, json.Number,
// float64 and bool values are accepted; empty strings and nulls are skipped.
func Scalar(m map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case json.Number:
			return v.String(), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(v), true
		}
	}
	return "", false
}

// PositiveSeconds interprets v as a positive number of seconds. It accepts numbers and
// numeric strings; anything else, zero or negative yields ok=false.
func PositiveSeconds(v interface{}) (int64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f <= 0 {
		return 0, false
	}
	return int64(f), true
}

// DecodeObject decodes raw as a JSON object, keeping numbers as json.Number.
// ok is false when raw is not valid JSON or its top-level value is not an object.
func DecodeObject(raw []byte) (map[string]interface{}, bool) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// only whitespace may follow the value
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	obj, ok := v.(map[string]interface{})
	return obj, ok
}
