package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/shahjs01/kylo/pkg/manifest"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run a relational import job from manifest",
	Long: `Run a relational import job as defined in a YAML or JSON manifest file.

The manifest specifies the source connection, credential delivery, the
extraction strategy, and the HDFS landing target. The rendered command is
launched through the shell after the cluster security gate passes.

Secrets never reach the logs or the output records; the masked rendering
is used everywhere a command line is shown.

Example:
  kylo import --job customers.yaml
  kylo import --job customers.yaml --output run.jsonl
  kylo import --job customers.yaml --render-only`,
	RunE: runImport,
}

var (
	importJobPath    string
	importOutput     string
	importRenderOnly bool
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importJobPath, "job", "j", "", "Path to job manifest (required)")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Record destination (stdout or file:/path/run.jsonl)")
	importCmd.Flags().BoolVar(&importRenderOnly, "render-only", false, "Print the masked command without launching")

	_ = importCmd.MarkFlagRequired("job")
}

func runImport(cmd *cobra.Command, _ []string) error {
	m, err := loadJobManifest(importJobPath)
	if err != nil {
		return err
	}
	if m.Kind != manifest.KindImport {
		return exitError(foundry.ExitInvalidArgument, "Invalid manifest",
			fmt.Errorf("manifest kind is %q, expected %q", m.Kind, manifest.KindImport))
	}

	return executeJob(cmd.Context(), m, importRenderOnly, importOutput)
}
