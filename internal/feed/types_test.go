package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReleaseTypes(t *testing.T) {
	t.Run("parses known types", func(t *testing.T) {
		types, err := ParseReleaseTypes([]string{"release", "pre-release", "draft"})
		require.NoError(t, err)
		assert.Equal(t, []ReleaseType{ReleaseTypeRelease, ReleaseTypePrerelease, ReleaseTypeDraft}, types)
	})

	t.Run("empty input returns nil", func(t *testing.T) {
		types, err := ParseReleaseTypes(nil)
		require.NoError(t, err)
		assert.Nil(t, types)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := ParseReleaseTypes([]string{"release", "beta"})
		assert.ErrorContains(t, err, `unknown release type "beta"`)
	})
}
