package jsonmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	m, err := FromJSON([]byte(`{"id": "urn:uuid:1", "count": 2}`))
	require.NoError(t, err)
	assert.Equal(t, "urn:uuid:1", m["id"])

	_, err = FromJSON(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, err = FromJSON([]byte(`[1, 2]`))
	require.Error(t, err)
}

func TestCopyIsDeep(t *testing.T) {
	m := JSONMap{"subject": map[string]interface{}{"name": "John"}}

	copied, err := m.Copy()
	require.NoError(t, err)

	copied["subject"].(map[string]interface{})["name"] = "Jane"
	assert.Equal(t, "John", m["subject"].(map[string]interface{})["name"])
}

func TestWithoutField(t *testing.T) {
	m := JSONMap{"id": "urn:uuid:1", "proof": map[string]interface{}{"type": "DataIntegrityProof"}}

	stripped := m.WithoutField("proof")
	assert.NotContains(t, stripped, "proof")
	assert.Contains(t, stripped, "id")
	// Original untouched.
	assert.Contains(t, m, "proof")
}

func TestArrayField(t *testing.T) {
	m := JSONMap{
		"single": map[string]interface{}{"id": "a"},
		"many":   []interface{}{"a", "b"},
	}

	assert.Len(t, m.ArrayField("single"), 1)
	assert.Len(t, m.ArrayField("many"), 2)
	assert.Nil(t, m.ArrayField("missing"))
}
