package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "drop", "version"}, names)

	down, _, err := cmd.Find([]string{"down"})
	require.NoError(t, err)
	assert.NotNil(t, down.Flags().Lookup("steps"))
}

func TestRootCommand_MissingConfig(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"up", "--config", "testdata/does-not-exist.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestEffectiveConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "assets/local.yaml", effectiveConfigPath(""))
	assert.Equal(t, "custom.yaml", effectiveConfigPath("custom.yaml"))

	t.Setenv("CONFIG_PATH", "from-env.yaml")
	assert.Equal(t, "from-env.yaml", effectiveConfigPath(""))
}

func TestIgnoreNoChange(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ignoreNoChange(nil))
	assert.NoError(t, ignoreNoChange(migrate.ErrNoChange))

	boom := errors.New("boom")
	assert.ErrorIs(t, ignoreNoChange(boom), boom)
}
