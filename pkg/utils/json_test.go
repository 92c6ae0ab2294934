package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSON(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, EncodeJSON(&out, map[string]int{"threads": 4}))

	assert.Equal(t, "{\n  \"threads\": 4\n}\n", out.String())
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}
