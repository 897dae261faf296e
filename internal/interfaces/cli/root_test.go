package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["diagnose"])
	assert.True(t, names["migrate"])
}

func TestRootCommand_Version(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "commit:")
}

func TestPrintResult_JSON(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, PrintResult(cmd, "json", map[string]int{"score": 72}))
	assert.JSONEq(t, `{"score": 72}`, out.String())
}

func TestPrintResult_Text(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, PrintResult(cmd, "text", "all good"))
	assert.Equal(t, "all good\n", out.String())
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(
		[]string{"Dimension", "Score"},
		[][]string{
			{"funding_readiness", "70"},
			{"compliance", "55"},
		},
	)

	assert.Contains(t, out, "Dimension          Score")
	assert.Contains(t, out, "funding_readiness  70")
	assert.Contains(t, out, "compliance         55")
	assert.Contains(t, out, "---------")
}

func TestFormatTable_Empty(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	PrintError(cmd, assert.AnError)
	assert.Contains(t, errOut.String(), "Error: ")

	errOut.Reset()
	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())
}

//Personal.AI order the ending
