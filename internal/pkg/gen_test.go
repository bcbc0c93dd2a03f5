package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlayerName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := GeneratePlayerName()

		// Then: names have the fixed length
		require.Len(t, name, nameLength)

		// Then: only capital letters from a small pool appear
		distinct := make(map[rune]struct{})
		for _, r := range name {
			require.True(t, r >= 'A' && r <= 'Z', "unexpected character %q", r)
			distinct[r] = struct{}{}
		}

		assert.LessOrEqual(t, len(distinct), nameLetterPoolSize)
	}
}
