package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsAreInitialized(t *testing.T) {
	// Unless overridden via ldflags, all build metadata reads "unknown".
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}
