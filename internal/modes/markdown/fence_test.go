package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/nestmode/internal/nesting"
)

func TestFencedCodeBlockConfig_Compiles(t *testing.T) {
	cfg, err := nesting.Compile(FencedCodeBlockConfig(), 0, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestFencedCodeBlockConfig_OpenMatchesInfoString(t *testing.T) {
	raw := FencedCodeBlockConfig()
	cfg, err := nesting.Compile(raw, 0, nil)
	require.NoError(t, err)

	match, ok := cfg.Open.Find("```go", 0, true)
	require.True(t, ok)
	require.Equal(t, []string{"```", "go"}, match.Groups)
}

func TestFencedCodeBlockConfig_StartResolvesLanguageMode(t *testing.T) {
	raw := FencedCodeBlockConfig()
	cfg, err := nesting.Compile(raw, 0, nil)
	require.NoError(t, err)

	match, ok := cfg.Open.Find("```python extra", 0, true)
	require.True(t, ok)

	delta, err := raw.Start(nesting.NewEditorContext(nil), match)
	require.NoError(t, err)
	require.NotNil(t, delta.Mode)
}

func TestFencedCodeBlockConfig_CloseMatchesPlainFence(t *testing.T) {
	raw := FencedCodeBlockConfig()
	cfg, err := nesting.Compile(raw, 0, nil)
	require.NoError(t, err)

	_, ok := cfg.Close.Find("```", 0, false)
	require.True(t, ok)
}
