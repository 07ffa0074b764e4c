package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/nestmode/internal/nesting"
)

func TestMaskConfigCache_ComputesOnce(t *testing.T) {
	c := NewMaskConfigCache()
	calls := 0
	compute := func() []*nesting.Config {
		calls++
		cfg, err := nesting.Compile(nesting.RawConfig{Open: nesting.Literal("#"), Mask: true}, 1, nil)
		require.NoError(t, err)
		return []*nesting.Config{cfg}
	}

	first := c.GetOrCompute("k", compute)
	second := c.GetOrCompute("k", compute)

	require.Len(t, first, 1)
	require.Same(t, first[0], second[0])
	require.Equal(t, 1, calls)
}

func TestMaskConfigCache_DistinctKeys(t *testing.T) {
	c := NewMaskConfigCache()
	calls := 0
	compute := func() []*nesting.Config {
		calls++
		return nil
	}

	c.GetOrCompute("a", compute)
	c.GetOrCompute("b", compute)

	require.Equal(t, 2, calls)
}
