package version_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/sortviz/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := version.String()

	assert.True(t, strings.HasPrefix(s, "sortviz "))
	assert.Contains(t, s, "commit: ")
	assert.Contains(t, s, "built: ")
}

func TestInitBinaryVersion_KeepsVersionSet(t *testing.T) {
	version.InitBinaryVersion()

	assert.NotEmpty(t, version.Version)
	assert.NotEmpty(t, version.Commit)
}
