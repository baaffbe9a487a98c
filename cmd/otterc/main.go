// Command otterc compiles an externally-produced program tree into a native
// executable via the LLVM-backed code generation core (SPEC_FULL.md §2, §5).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"otterc/internal/astfile"
	"otterc/internal/codegen"
	"otterc/internal/config"
	"otterc/internal/symbols"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		outputPath string
		configPath string
		optLevel   string
		emitIR     bool
		lto        bool
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "otterc <program.json>",
		Short: "Lower an externally-parsed program tree to a native executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flagSet := cmd.Flags().Changed("opt-level")
			level, err := codegen.ParseOptLevel(config.MergeOptLevel(flagSet, optLevel, profile, "default"))
			if err != nil {
				return err
			}

			opts := codegen.Options{
				EmitIR:    emitIR || profile.EmitIR,
				OptLevel:  level,
				EnableLTO: lto || profile.LTO,
			}

			if verbose {
				fmt.Printf("%s opt-level=%s emit-ir=%v lto=%v\n", yellow("building"), opts.OptLevel, opts.EmitIR, opts.EnableLTO)
			}

			program, err := astfile.Load(args[0])
			if err != nil {
				return err
			}

			registry := symbols.Bootstrap()

			artifact, err := codegen.BuildExecutable(program, outputPath, opts, registry)
			if err != nil {
				return err
			}

			if artifact.HasIR {
				fmt.Println(artifact.IR)
			}
			fmt.Printf("%s %s\n", green("built"), artifact.Binary)
			return nil
		},
	}

	root.Flags().StringVarP(&outputPath, "output", "o", "a.out", "path of the linked executable")
	root.Flags().StringVar(&configPath, "config", "otterc.yaml", "path to an optional build profile")
	root.Flags().StringVar(&optLevel, "opt-level", "default", "optimisation level: none, default, aggressive")
	root.Flags().BoolVar(&emitIR, "emit-ir", false, "print the LLVM IR captured before optimisation")
	root.Flags().BoolVar(&lto, "lto", false, "pass -flto to the final link step")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "print build configuration before compiling")

	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the LLVM version this build is linked against",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(codegen.LLVMVersion())
			return nil
		},
	}
}
