package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	cfgPath string
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{cfgPath: defaultConfigPath}
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate documentation configuration files",
		Long: "Loads each file and registers its documents against an empty router.\n" +
			"Without arguments the file given by --config is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{opts.cfgPath}
			}
			return runValidate(cmd, paths)
		},
	}
	cmd.Flags().StringVarP(&opts.cfgPath, "config", "c", defaultConfigPath, "config yaml path")
	return cmd
}

func runValidate(cmd *cobra.Command, paths []string) error {
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range paths {
		_, err := register(path)
		printStatus(out, path, err)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d configuration files are invalid", failed, len(paths))
	}
	return nil
}
