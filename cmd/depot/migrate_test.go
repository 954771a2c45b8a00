// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-store/depot/internal/config"
	"github.com/depot-store/depot/pkg/errutil"
)

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), config.EnvDatabaseURL)
}

func TestMigrateCommand_Properties(t *testing.T) {
	cmd := NewMigrateCmd()

	assert.Equal(t, "migrate", cmd.Use)
	assert.Contains(t, cmd.Short, "migrations")
	assert.Contains(t, cmd.Long, "PostgreSQL")
}
