package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vitalvas/oasdocs/multidoc"
	"gopkg.in/yaml.v3"
)

type planOptions struct {
	cfgPath string
	output  string
}

func newPlanCmd() *cobra.Command {
	opts := planOptions{cfgPath: defaultConfigPath, output: "table"}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the documents a configuration publishes",
		Long: "Prints where each document is served.\n" +
			"Output formats: table, json, yaml, scalar, swagger-ui.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.OutOrStdout(), opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", defaultConfigPath, "config yaml path")
	fs.StringVarP(&opts.output, "output", "o", "table", "output format")
	return cmd
}

func runPlan(w io.Writer, opts planOptions) error {
	reg, err := register(opts.cfgPath)
	if err != nil {
		return err
	}

	switch opts.output {
	case "table":
		return writeTable(w, reg.Sources())
	case "json":
		return writeJSON(w, reg.Sources())
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reg.Sources()); err != nil {
			return err
		}
		return enc.Close()
	case "scalar":
		return writeJSON(w, reg.ScalarSources())
	case "swagger-ui":
		return writeJSON(w, reg.SwaggerUISources())
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, sources []multidoc.Source) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REF\tJSON\tYAML\tNAME")
	for _, src := range sources {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", src.Ref, orDash(src.JSON), orDash(src.YAML), orDash(src.DisplayName))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
