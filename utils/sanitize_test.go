package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(`hello <script>alert(1)</script>world`)
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "hello")
	require.Contains(t, out, "world")
}

func TestSanitizeKeepsPlainText(t *testing.T) {
	require.Equal(t, "spacing feels off here", Sanitize("spacing feels off here"))
}
