package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckIntegrityRefusesMemoryDriver(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	out, err := runCLI(t, "check-integrity", "--entity", "ent-1")

	require.ErrorIs(t, err, errIntegrityNeedsData)
	assert.NotContains(t, out, "OK")
}

func TestCheckIntegrityRejectsBadDate(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := runCLI(t, "check-integrity", "--entity", "ent-1", "--as-of", "31/01/2024")

	assert.ErrorContains(t, err, "as-of")
}
