package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHTML(t *testing.T) {
	output, err := NormalizeHTML("<h1>Title</h1><p>with <strong>bold</strong> text</p>")
	require.NoError(t, err)

	require.Contains(t, output, "# Title")
	require.Contains(t, output, "**bold**")
}

func TestNormalizeHTMLPlain(t *testing.T) {
	output, err := NormalizeHTML("plain text")
	require.NoError(t, err)

	require.Contains(t, output, "plain text")
}
