package crypto

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolutionKeyDeterministic(t *testing.T) {
	require.Equal(t, SolutionKey("Solution10"), SolutionKey("Solution10"))
	require.NotEqual(t, SolutionKey("Solution10"), SolutionKey("Solution11"))
}

func TestSolutionKeyFormat(t *testing.T) {
	key := SolutionKey("Solution10")
	_, err := strconv.ParseUint(key, 10, 64)
	require.NoError(t, err, "solution keys are decimal uint64 strings")
}
