package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMappings(t *testing.T) {
	t.Run("should decode the bundled seed file", func(t *testing.T) {
		f, err := os.Open("../../db/seed/mappings.yaml")
		require.NoError(t, err)
		defer f.Close()

		mappings, err := readMappings(f)
		require.NoError(t, err)
		require.NotEmpty(t, mappings)
		for _, m := range mappings {
			assert.NotEmpty(t, m.TagName)
			assert.False(t, m.SystemTag)
		}
	})

	t.Run("should reject a mapping without a tag", func(t *testing.T) {
		_, err := readMappings(strings.NewReader("mappings:\n  - objectPath: valHeader.ValYear\n"))
		assert.Error(t, err)
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		_, err := readMappings(strings.NewReader("mappings: ["))
		assert.Error(t, err)
	})
}
