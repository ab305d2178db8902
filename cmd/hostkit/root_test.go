package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbukum/hostkit/cmd/hostkit/demo"
	"github.com/kbukum/hostkit/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDescribe(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "describe",
		"--environment", "Development",
		"--extensions", demo.ModuleBanner+";"+demo.ModuleFaulty)
	require.NoError(t, err)
	require.Contains(t, out, demo.AssemblyName)
	require.Contains(t, out, "(Development)")
	require.Contains(t, out, demo.ModuleFaulty)
	require.Contains(t, out, "heartbeat")
}

func TestDescribeUnknownStartup(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "describe", "--startup", "nope")
	require.NoError(t, err, "describe captures startup errors")
	require.Contains(t, out, "STARTUP_LOAD_FAILED")
}

func TestRunFailsWithoutCapture(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "run", "--extensions", demo.ModuleFaulty)
	require.Error(t, err)
	require.Contains(t, err.Error(), "hosting startup "+demo.ModuleFaulty)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, version.Version)
}
