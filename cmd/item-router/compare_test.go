package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDiff(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected string
	}{
		{
			name:     "Identical",
			a:        "A : Lamp\nB : Rope\n",
			b:        "A : Lamp\nB : Rope\n",
			expected: " A : Lamp\n B : Rope\n",
		},
		{
			name:     "Changed",
			a:        "A : Lamp\nB : Rope\nC : nothing\n",
			b:        "A : Rope\nB : Lamp\nC : nothing\n",
			expected: "-A : Lamp\n-B : Rope\n+A : Rope\n+B : Lamp\n C : nothing\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, writeDiff(tt.a, tt.b, &out, false))
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestWriteDiffColored(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeDiff("A : Lamp\n", "A : Rope\n", &out, true))
	assert.True(t, strings.HasPrefix(out.String(), "\x1b[31m-A : Lamp"), out.String())
	assert.Contains(t, out.String(), "\x1b[32m+A : Rope")
}

func TestRunCompare(t *testing.T) {
	o := compareOptions{
		routeOptions: defaultRouteOptions(),
		against:      5,
		color:        "never",
	}
	o.Requirements = writeFile(t, t.TempDir(), "requirements.txt", chainSpec)
	o.Seed = 4

	var out bytes.Buffer
	require.NoError(t, runCompare(context.Background(), o, &out))
	assert.Equal(t, "--- seed 4\n+++ seed 5\n A : Lamp\n B : Rope\n C : nothing\n", out.String())

	o.color = "sometimes"
	assert.EqualError(t, runCompare(context.Background(), o, &out), "sometimes is not a supported color mode")
}
