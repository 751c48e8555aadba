// Package cli implements the oasdocs command, which checks multidoc
// configuration files without starting a server.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vitalvas/oasdocs/multidoc"
	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
)

const defaultConfigPath = "docs.yaml"

// Execute runs the command line with args, not including the program name.
func Execute(args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "oasdocs",
		Short:         "Check and plan multi-document OpenAPI publishing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newValidateCmd(),
		newPlanCmd(),
	)
	return cmd
}

// register loads the file at path and registers it against an empty router,
// which runs every check Register performs at application startup.
func register(path string) (*multidoc.Registry, error) {
	cfg, err := multidoc.LoadConfig(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	spec := openapi.NewSpec(openapi.Info{Title: "oasdocs", Version: "0.0.0"})
	return multidoc.Register(cfg.Config(mux.NewRouter(), spec))
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) && strings.TrimSpace(os.Getenv("NO_COLOR")) == ""
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func colorize(w io.Writer, ok bool, text string) string {
	if !colorEnabled(w) {
		return text
	}
	if ok {
		return okStyle.Render(text)
	}
	return failedStyle.Render(text)
}

func printStatus(w io.Writer, path string, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s: %s\n", path, colorize(w, false, "FAILED"))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", path, colorize(w, true, "OK"))
}
