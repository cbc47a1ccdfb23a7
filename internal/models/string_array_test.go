package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringArray{"Transformer", "CRISPR"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["Transformer","CRISPR"]`, v.(string))
}

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringArray{"a", "b"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	require.NoError(t, a.Scan("null"))
	assert.Empty(t, a)

	// Legacy plain-string rows wrap into a single-element list.
	require.NoError(t, a.Scan("plain"))
	assert.Equal(t, StringArray{"plain"}, a)

	assert.Error(t, a.Scan(42))
}
