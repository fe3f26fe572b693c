package models

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID("req")
	require.True(t, strings.HasPrefix(id, "req_"))

	_, err := ulid.Parse(strings.TrimPrefix(id, "req_"))
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewID("req"))
}
