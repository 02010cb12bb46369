package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderID_Format(t *testing.T) {
	id, err := newOrderID()
	require.NoError(t, err)

	assert.Len(t, id, 12)
	assert.True(t, strings.HasPrefix(id, "ORD"))
	for _, c := range id[3:] {
		assert.Contains(t, orderIDAlphabet, string(c))
	}
}

func TestNewOrderID_NoCollisionsInPractice(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := newOrderID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate order id %s", id)
		seen[id] = struct{}{}
	}
}
