package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)

	versionCmd.Run(versionCmd, nil)

	require.NotEmpty(t, out.String())
	assert.Contains(t, out.String(), "job_agent")
	assert.Contains(t, out.String(), version)
}
