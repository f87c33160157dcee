package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	m := map[string]interface{}{
		"locationId":  "",
		"location_id": "loc-1",
		"count":       json.Number("3"),
	}

	assert.Equal(t, "loc-1", String(m, "locationId", "location_id"))
	assert.Equal(t, "", String(m, "count"))
	assert.Equal(t, "", String(m, "missing"))
}

func TestObject(t *testing.T) {
	m := map[string]interface{}{
		"data":  map[string]interface{}{"locationId": "loc-2"},
		"other": "text",
	}

	assert.Equal(t, "loc-2", String(Object(m, "data"), "locationId"))
	assert.Nil(t, Object(m, "other"))
	assert.Nil(t, Object(m, "missing"))
}

func TestScalar(t *testing.T) {
	m := map[string]interface{}{
		"empty":  "",
		"millis": json.Number("1700000000000"),
		"float":  float64(12.5),
		"nil":    nil,
	}

	v, ok := Scalar(m, "empty", "millis")
	assert.True(t, ok)
	assert.Equal(t, "1700000000000", v)

	v, ok = Scalar(m, "float")
	assert.True(t, ok)
	assert.Equal(t, "12.5", v)

	_, ok = Scalar(m, "nil", "missing")
	assert.False(t, ok)
}

func TestPositiveSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{"json number", json.Number("3600"), 3600, true},
		{"float", float64(86399), 86399, true},
		{"numeric string", "7200", 7200, true},
		{"padded string", " 60 ", 60, true},
		{"zero", json.Number("0"), 0, false},
		{"negative", float64(-5), 0, false},
		{"garbage string", "soon", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PositiveSeconds(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeObject(t *testing.T) {
	obj, ok := DecodeObject([]byte(`{"type":"ContactCreate","n":12345678901234567890}`))
	require.True(t, ok)
	assert.Equal(t, "ContactCreate", obj["type"])
	assert.Equal(t, json.Number("12345678901234567890"), obj["n"])

	_, ok = DecodeObject([]byte("{\"a\":1}\n\t "))
	assert.True(t, ok, "trailing whitespace")

	for _, raw := range []string{
		`[1,2]`, `"text"`, `null`, `{bad`, `{} {}`, ``,
		`{"type":"ContactCreate"}}`, `{"a":1}]`, `{"a":1},`, `{"a":1} x`,
	} {
		_, ok := DecodeObject([]byte(raw))
		assert.False(t, ok, raw)
	}
}
