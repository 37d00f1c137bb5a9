package cli

import (
	"fmt"

	"github.com/fmueller/transcribe/internal/whisper"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported model sizes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range whisper.ModelNames() {
				if name == whisper.DefaultModel {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
