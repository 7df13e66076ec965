package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := runCmd(t, "info", "--type", "int64", "--p", "101")
	require.NoError(t, err)
	assert.Contains(t, out, "Dispatch level:")
	assert.Contains(t, out, "kmax:")
	assert.Contains(t, out, "Skew pair:")
}

func TestInfoErrors(t *testing.T) {
	_, err := runCmd(t, "info", "--type", "int16")
	assert.ErrorContains(t, err, "unknown element type")

	_, err = runCmd(t, "info", "--type", "int32", "--p", "100")
	assert.Error(t, err)
}

func TestSpMVCommand(t *testing.T) {
	for _, layout := range []string{"ell", "ellsimd"} {
		out, err := runCmd(t, "spmv", "--type", "int64", "--p", "1000003",
			"--m", "64", "--n", "64", "--per-row", "5", "--reps", "1", "--layout", layout, "--workers", "2")
		require.NoError(t, err, layout)
		assert.Contains(t, out, "generic")
		assert.Contains(t, out, "unparametric")
	}
	_, err := runCmd(t, "spmv", "--layout", "csr", "--m", "4", "--n", "4")
	assert.ErrorContains(t, err, "unknown layout")
}

func TestSyrkCommand(t *testing.T) {
	out, err := runCmd(t, "syrk", "--type", "float64", "--p", "101",
		"--n", "32", "--k", "16", "--beta", "3", "--threshold", "8", "--reps", "1", "--budget", "100000")
	require.NoError(t, err)
	assert.Contains(t, out, "threshold 8")
	assert.Contains(t, out, "scratch peak")

	_, err = runCmd(t, "syrk", "--n", "32", "--k", "32", "--beta", "1", "--threshold", "8", "--budget", "10", "--reps", "1")
	assert.ErrorContains(t, err, "scratch")

	_, err = runCmd(t, "syrk", "--threshold", "1")
	assert.Error(t, err)
}
