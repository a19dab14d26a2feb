package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freshRootCmd creates a bare root command so completion output is not
// affected by state other tests leave on the package-level command.
func freshRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cloudguard",
		Short: "Client for the autoscaler service",
	}
}

func TestCompletionBashGeneration(t *testing.T) {
	cmd := freshRootCmd()

	var buf bytes.Buffer
	err := cmd.GenBashCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "# bash completion for cloudguard")
	assert.Contains(t, output, "complete -o default -F __start_cloudguard cloudguard")
}

func TestCompletionZshGeneration(t *testing.T) {
	cmd := freshRootCmd()

	var buf bytes.Buffer
	err := cmd.GenZshCompletion(&buf)

	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "#compdef cloudguard")
	assert.Contains(t, output, "_cloudguard()")
}

func TestCompletionFishGeneration(t *testing.T) {
	cmd := freshRootCmd()

	var buf bytes.Buffer
	err := cmd.GenFishCompletion(&buf, true)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cloudguard")
}
