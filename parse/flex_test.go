package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntAcceptsStringAndNumber(t *testing.T) {
	var doc struct {
		A Int `json:"a"`
		B Int `json:"b"`
		C Int `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "42", "b": 42, "c": "junk"}`), &doc))

	v, ok := doc.A.Value()
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	v, ok = doc.B.Value()
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok = doc.C.Value()
	assert.False(t, ok)
	assert.Equal(t, int64(-1), doc.C.Or(-1))
}

func TestIntZeroValueInvalid(t *testing.T) {
	var n Int
	_, ok := n.Value()
	assert.False(t, ok)
}

func TestFloatPtr(t *testing.T) {
	var doc struct {
		A Float `json:"a"`
		B Float `json:"b"`
		C Float `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "4.336531", "b": 4.5, "c": ""}`), &doc))

	require.NotNil(t, doc.A.Ptr())
	assert.InDelta(t, 4.336531, *doc.A.Ptr(), 1e-9)
	require.NotNil(t, doc.B.Ptr())
	assert.InDelta(t, 4.5, *doc.B.Ptr(), 1e-9)
	assert.Nil(t, doc.C.Ptr())
}

func TestStringAcceptsNumber(t *testing.T) {
	var doc struct {
		A String `json:"a"`
		B String `json:"b"`
		C String `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "12", "b": 12, "c": {"x": 1}}`), &doc))

	assert.Equal(t, "12", doc.A.Value())
	assert.Equal(t, "12", doc.B.Value())
	assert.Equal(t, "", doc.C.Value())
}
