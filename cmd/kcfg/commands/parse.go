package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/desultory/custom-kernel/pkg/kconfig"
)

func newParseCommand() *cobra.Command {
	var (
		basePath string
		arch     string
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Kconfig source tree",
		Long: `Parse a Kconfig file and, recursively, every file it sources.

Prints a per-kind parameter summary and all collected diagnostics.
Unknown constructs are reported, never fatal.`,
		Example: `  # Parse the default tree at /usr/src/linux
  kcfg parse

  # Parse an arm64 tree from a checkout
  kcfg parse --base-path ~/src/linux --arch arm64

  # Dump the full tree as JSON
  kcfg parse --json arch/x86/Kconfig`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "Kconfig"
			if len(args) > 0 {
				file = args[0]
			}

			logger := newRunLogger()
			parser := kconfig.NewParser(kconfig.NewDirSource(basePath), kconfig.Options{
				BasePath: basePath,
				Arch:     arch,
				Logger:   logger,
			})

			tree, err := parser.Parse(file)
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := json.MarshalIndent(tree, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			summary := tree.Summarize()
			fmt.Printf("Parsed %d files, %d parameters\n", summary.Files, summary.Params)
			for _, kind := range []kconfig.Kind{
				kconfig.KindConfig,
				kconfig.KindMenuconfig,
				kconfig.KindMenu,
				kconfig.KindChoice,
				kconfig.KindIf,
			} {
				if n := summary.ByKind[kind]; n > 0 {
					fmt.Printf("  %-10s %d\n", kind, n)
				}
			}
			fmt.Printf("Diagnostics: %d warnings, %d errors\n", summary.Warnings, summary.Errors)

			return tree.Walk(func(node *kconfig.Tree) error {
				for _, d := range node.Diagnostics {
					fmt.Printf("  %s %s:%d: %s\n", d.Severity, d.File, d.Line, d.Message)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", kconfig.DefaultBasePath, "kernel source tree root")
	cmd.Flags().StringVar(&arch, "arch", kconfig.DefaultArch, "architecture substituted for $(SRCARCH)")

	return cmd
}
