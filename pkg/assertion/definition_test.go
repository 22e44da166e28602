package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefinition_YAML(t *testing.T) {
	data := []byte(`
- type: url_contains
  target: url
  value: login
  message: User remains on login page
- type: attribute_equals
  target: username
  attribute: type
  value: email
  message: Username field is an email input
- type: one_of
  target: error_text
  values: [Invalid credentials, Username is required]
  message: Error message is recognised
`)

	var defs []Definition
	require.NoError(t, yaml.Unmarshal(data, &defs))
	require.Len(t, defs, 3)

	assert.Equal(t, TypeURLContains, defs[0].Type)
	assert.Equal(t, "url", defs[0].Target)
	assert.Equal(t, "login", defs[0].Value)
	assert.Equal(t, "type", defs[1].Attribute)
	assert.Equal(t, []any{"Invalid credentials", "Username is required"}, defs[2].Values)
	assert.Equal(t, "Error message is recognised", defs[2].Message)
}
