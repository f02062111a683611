package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var sb strings.Builder
	PrintBanner(&sb, "0.1.0\n")

	out := sb.String()
	assert.Contains(t, out, `/ ___| _   _| | | __ _| |__`)
	assert.Contains(t, out, "v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Joins\n\nUse `INNER JOIN`.")
	require.NoError(t, err)
	assert.Contains(t, out, "Joins")
	assert.Contains(t, out, "INNER JOIN")
}
