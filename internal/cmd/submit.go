package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/shahjs01/kylo/pkg/manifest"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Run a spark job from manifest",
	Long: `Submit a spark application as defined in a YAML or JSON manifest file.

The manifest specifies the application resource, entry point, resource
sizing, and runtime settings. On secured clusters the Kerberos identity is
authenticated first and injected into the submission.

Example:
  kylo submit --job etl.yaml
  kylo submit --job etl.yaml --output run.jsonl
  kylo submit --job etl.yaml --render-only`,
	RunE: runSubmit,
}

var (
	submitJobPath    string
	submitOutput     string
	submitRenderOnly bool
)

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitJobPath, "job", "j", "", "Path to job manifest (required)")
	submitCmd.Flags().StringVarP(&submitOutput, "output", "o", "", "Record destination (stdout or file:/path/run.jsonl)")
	submitCmd.Flags().BoolVar(&submitRenderOnly, "render-only", false, "Print the submit command without launching")

	_ = submitCmd.MarkFlagRequired("job")
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	m, err := loadJobManifest(submitJobPath)
	if err != nil {
		return err
	}
	if m.Kind != manifest.KindSpark {
		return exitError(foundry.ExitInvalidArgument, "Invalid manifest",
			fmt.Errorf("manifest kind is %q, expected %q", m.Kind, manifest.KindSpark))
	}

	return executeJob(cmd.Context(), m, submitRenderOnly, submitOutput)
}
