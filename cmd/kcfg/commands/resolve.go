package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/desultory/custom-kernel/pkg/dotconfig"
	"github.com/desultory/custom-kernel/pkg/kconfig"
	"github.com/desultory/custom-kernel/pkg/telemetry"
)

// resolveFlags are shared by the resolve and watch commands.
type resolveFlags struct {
	overrides   string
	facts       string
	templateDir string
	only        string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.overrides, "overrides", "config.yaml", "override document to resolve")
	cmd.Flags().StringVar(&f.facts, "facts", "", "YAML fact table for condition evaluation")
	cmd.Flags().StringVar(&f.templateDir, "templates", "templates", "directory holding template documents")
	cmd.Flags().StringVar(&f.only, "only", "", "glob filter on emitted parameter names")
}

func newResolveCommand() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve overrides into .config output",
		Long: `Resolve a YAML override document into validated kernel parameters and
print the rendered .config text.

The reserved top-level 'templates' key expands named template documents
first; conditions ('if' lists) are evaluated against the fact table.`,
		Example: `  # Resolve the default config.yaml
  kcfg resolve

  # Resolve with facts and only emit networking options
  kcfg resolve --facts facts.yaml --only 'CONFIG_NET*'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newRunLogger()
			col, err := runResolve(logger, flags)
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := json.MarshalIndent(col.Parameters(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Print(col.Render())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// runResolve loads the override document and facts, resolves them and
// applies the optional name filter.
func runResolve(logger *telemetry.Logger, flags *resolveFlags) (*dotconfig.Collection, error) {
	dir, file := filepath.Split(flags.overrides)
	if dir == "" {
		dir = "."
	}
	doc, err := dotconfig.LoadOverrides(os.DirFS(dir), file)
	if err != nil {
		return nil, err
	}

	var facts dotconfig.Facts
	if flags.facts != "" {
		fdir, ffile := filepath.Split(flags.facts)
		if fdir == "" {
			fdir = "."
		}
		facts, err = dotconfig.LoadFacts(os.DirFS(fdir), ffile)
		if err != nil {
			return nil, err
		}
	}

	templates := dotconfig.NewFSTemplates(os.DirFS(flags.templateDir), ".")
	resolver := dotconfig.NewResolver(facts, templates, logger)

	col, err := resolver.Resolve(doc)
	if err != nil {
		return nil, err
	}
	for _, d := range col.Diagnostics {
		if d.Severity == kconfig.SeverityError {
			logger.Errorf("%s: %s", d.Entry, d.Message)
		} else {
			logger.Warnf("%s: %s", d.Entry, d.Message)
		}
	}

	if flags.only != "" {
		return col.Filter(flags.only)
	}
	return col, nil
}
