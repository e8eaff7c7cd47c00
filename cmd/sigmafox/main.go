// ==============================================================================================
// FILE: cmd/sigmafox/main.go
// ==============================================================================================
// PURPOSE: The CLI surface (§6): a single cobra command that wires the
//          recognized flags onto a config.Settings bundle, builds a
//          Driver over the given entry file, parses and validates it, and
//          prints its reference rendering or a diagnostic report. Grounded
//          on the cobra root-command shape used elsewhere in the corpus
//          (cmd.Flags().*Var, a single RunE callback, rootCmd.Execute()).
// ==============================================================================================

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sigmafox/config"
	"sigmafox/diag"
	"sigmafox/frontend"
	"sigmafox/printer"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		outputName      string
		outputDirectory string
		compile         bool
		trimComments    bool
		memoryLimitSize string
		stringPoolLimit string
		configPath      string
		printTree       bool
	)

	rootCmd := &cobra.Command{
		Use:   "sigmafox <file>",
		Short: "SigmaFox/COSY front end: parse, validate, and render a source file",
		Long:  "Parses a SigmaFox source file and its includes, reports diagnostics, and optionally renders the parsed tree through the reference printer.",
		Args:  cobra.ExactArgs(1),
	}

	rootCmd.Flags().StringVar(&outputName, "output-name", "", "Base name for generated artifacts")
	rootCmd.Flags().StringVar(&outputDirectory, "output-directory", "", "Output directory for generated artifacts")
	rootCmd.Flags().BoolVarP(&compile, "compile", "c", false, "Invoke downstream compiler on generated output")
	rootCmd.Flags().BoolVarP(&trimComments, "trim-comments", "t", false, "Strip comments from generated source")
	rootCmd.Flags().StringVar(&memoryLimitSize, "memory-limit-size", "", "Pre-reserved working memory budget (KB/MB/GB)")
	rootCmd.Flags().StringVar(&stringPoolLimit, "string-pool-limit", "", "Pre-reserved identifier pool budget (KB/MB/GB)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Optional TOML settings file")
	rootCmd.Flags().BoolVar(&printTree, "print", false, "Render the parsed tree through the reference printer")

	var exitCode int
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("output-name") {
			settings.OutputName = outputName
		}
		if cmd.Flags().Changed("output-directory") {
			settings.OutputDirectory = outputDirectory
		}
		if cmd.Flags().Changed("compile") {
			settings.Compile = compile
		}
		if cmd.Flags().Changed("trim-comments") {
			settings.TrimComments = trimComments
		}
		if memoryLimitSize != "" {
			v, err := config.ParseSize(memoryLimitSize)
			if err != nil {
				return err
			}
			settings.MemoryLimitSize = v
		}
		if stringPoolLimit != "" {
			v, err := config.ParseSize(stringPoolLimit)
			if err != nil {
				return err
			}
			settings.StringPoolLimit = v
		}

		log := zap.NewNop().Sugar()
		exitCode = runFrontend(args[0], settings, log, printTree, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

func runFrontend(filePath string, settings *config.Settings, log *zap.SugaredLogger, printTree bool, stdout, stderr io.Writer) int {
	g := frontend.NewDependencyGraph(settings, log)
	driver, err := frontend.NewParser(filePath, g, settings, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ok := driver.ParseAsRoot()

	bag := diag.NewBag(settings.WarningsAsErrors, log)
	driver.Validate(bag)

	for _, d := range driver.Diagnostics() {
		fmt.Fprintln(stderr, d.String())
	}
	for _, d := range bag.All() {
		fmt.Fprintln(stderr, d.String())
	}

	if printTree && ok {
		fmt.Fprint(stdout, printer.New(2).Print(driver.Root()))
	}

	if !ok || driver.ErrorCount() > 0 || bag.ErrorCount() > 0 {
		return 1
	}
	return 0
}
