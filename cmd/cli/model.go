package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/loanrisk/internal/infrastructure/classifier"
)

// newModelCmd groups the model artifact commands.
func newModelCmd() *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Commands for working with model artifacts",
	}
	modelCmd.AddCommand(newModelInspectCmd())
	return modelCmd
}

func newModelInspectCmd() *cobra.Command {
	var artifactPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load and validate a model artifact and print what it contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := classifier.LoadArtifact(artifactPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:           %s\n", a.Name)
			fmt.Fprintf(out, "Version:        %s\n", a.Version)
			fmt.Fprintf(out, "Format:         %s (schema %d)\n", a.Format, a.SchemaVersion)
			if a.TrainedAt != "" {
				fmt.Fprintf(out, "Trained at:     %s\n", a.TrainedAt)
			}
			fmt.Fprintf(out, "Classes:        %v\n", a.Classes)
			fmt.Fprintf(out, "Estimators:     %d\n", len(a.Estimators))
			fmt.Fprintf(out, "Feature width:  %d\n", a.Preprocessor.Width())

			numeric := make([]string, len(a.Preprocessor.Numeric))
			for i, c := range a.Preprocessor.Numeric {
				numeric[i] = c.Feature
			}
			fmt.Fprintf(out, "Numeric:        %s\n", strings.Join(numeric, ", "))
			for _, c := range a.Preprocessor.Categorical {
				fmt.Fprintf(out, "Categorical:    %s (%d categories)\n", c.Feature, len(c.Categories))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "Path of the model artifact")
	_ = cmd.MarkFlagRequired("artifact")
	return cmd
}
