package llm

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type strictProfile struct {
	Type            string   `json:"type"`
	IndustrySegment string   `json:"industrySegment,omitempty"`
	BudgetRange     string   `json:"budgetRange,omitempty"`
	KeyNeeds        []string `json:"keyNeeds"`
	Visual          struct {
		DesignStyle string `json:"designStyle"`
		Layout      string `json:"layout,omitempty"`
	} `json:"visual"`
}

func TestStrictSchema_AllPropertiesRequired(t *testing.T) {
	derived, err := jsonschema.For[strictProfile](nil)
	require.NoError(t, err)

	strict := strictSchema(derived)

	assert.ElementsMatch(t,
		[]string{"type", "industrySegment", "budgetRange", "keyNeeds", "visual"},
		strict.Required)
	assert.ElementsMatch(t,
		[]string{"designStyle", "layout"},
		strict.Properties["visual"].Required)
}

func TestStrictSchema_OptionalPropertiesNullable(t *testing.T) {
	derived, err := jsonschema.For[strictProfile](nil)
	require.NoError(t, err)

	strict := strictSchema(derived)

	assert.Contains(t, strict.Properties["industrySegment"].Types, "null")
	assert.Contains(t, strict.Properties["budgetRange"].Types, "null")
	assert.Contains(t, strict.Properties["visual"].Properties["layout"].Types, "null")

	// Fields that were already required keep their single type.
	assert.NotContains(t, strict.Properties["type"].Types, "null")
	assert.NotContains(t, strict.Properties["keyNeeds"].Types, "null")
}

func TestStrictSchema_LeavesOriginalUntouched(t *testing.T) {
	derived, err := jsonschema.For[strictProfile](nil)
	require.NoError(t, err)

	strictSchema(derived)

	assert.NotContains(t, derived.Required, "industrySegment")
	assert.Empty(t, derived.Properties["industrySegment"].Types)
}

func TestNullable_AlreadyNullable(t *testing.T) {
	s := &jsonschema.Schema{Types: []string{"string", "null"}}
	assert.Equal(t, []string{"string", "null"}, nullable(s).Types)
}
