// nmakegen [path], nmakegen generate [path]
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/qobs-build/nmakegen/internal/builder"
	"github.com/qobs-build/nmakegen/internal/msg"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagExt       string
	flagTarget    string
	flagOutput    string
	flagCheck     bool
	flagDiff      bool
	flagQuiet     bool
	flagGenerator EnumValue = NewEnumValue(builder.GeneratorNMake, map[string]string{
		builder.GeneratorNMake: "Generates an NMAKE makefile (default)",
		builder.GeneratorNinja: "Generates a build.ninja file",
	})
	flagSep EnumValue = NewEnumValue("native", map[string]string{
		"native":  "Use the separator of the host OS (default)",
		"windows": `Always write \`,
		"posix":   "Always write /",
	})
)

// loadBuilder opens the project named by args and applies flag overrides
func loadBuilder(args []string) *builder.Builder {
	msg.Quiet = flagQuiet

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	b, err := builder.NewBuilderInDirectory(target, flagConfig)
	if err != nil {
		msg.Fatal("%v", err)
	}

	err = b.Config().Override(builder.Config{
		Layout: builder.LayoutSection{Target: flagTarget, Output: flagOutput},
		Scan:   builder.ScanSection{Ext: flagExt},
	})
	if err != nil {
		msg.Fatal("%v", err)
	}
	return b
}

func doGenerate(cmd *cobra.Command, args []string) {
	b := loadBuilder(args)

	res, err := b.Generate(builder.Options{
		Generator: flagGenerator.Value(),
		Sep:       flagSep.Value(),
		Check:     flagCheck,
		Diff:      flagDiff,
	})
	if res != nil && res.Diff != "" && (flagDiff || flagCheck) {
		fmt.Fprint(cmd.OutOrStdout(), res.Diff)
	}
	if errors.Is(err, builder.ErrStale) {
		msg.Error("%v", err)
		os.Exit(1)
	}
	if err != nil {
		msg.Fatal("%v", err)
	}

	msg.Info("%d source files in %d directories", len(res.Plan.Sources), len(res.Plan.SourceDirs))
	name := displayPath(b.Dir(), res.Path)
	switch {
	case flagCheck:
		msg.Info("%s is up to date", name)
	case res.Changed:
		msg.Info("%s generated", name)
	default:
		msg.Info("%s unchanged", name)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nmakegen [project root]",
	Short: "Generate an NMAKE makefile from a source tree",
	Long: `Scans the src directory of a project for source files and writes a makefile
with one inference rule per source directory. If no project root is given, uses "."`,
	Args: cobra.MaximumNArgs(1),
	Run:  doGenerate,
}

var generateCmd = &cobra.Command{
	Use:     "generate [project root]",
	Aliases: []string{"gen"},
	Short:   "Generate the build file",
	Long:    `Generate the build file. If no project root is given, uses "."`,
	Args:    cobra.MaximumNArgs(1),
	Run:     doGenerate,
}

func init() {
	addProjectFlags(rootCmd)
	addGenerateFlags(rootCmd)

	// nmakegen generate subcommand
	rootCmd.AddCommand(generateCmd)
	addProjectFlags(generateCmd)
	addGenerateFlags(generateCmd)
}

// addProjectFlags adds the flags that change how a project is read
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Config file (default <project root>/"+builder.ConfigFilename+")")
	cmd.Flags().StringVarP(&flagExt, "ext", "e", "", "Source file extension (default .cpp)")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print warnings and errors")
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagTarget, "target", "t", "", "Name of the linked executable (default <project dir>.exe)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Name of the generated makefile (default makefile.nmake)")
	cmd.Flags().BoolVar(&flagCheck, "check", false, "Exit with an error if the build file is out of date, without writing it")
	cmd.Flags().BoolVar(&flagDiff, "diff", false, "Print the changes made to the build file")
	cmd.Flags().VarP(&flagGenerator, "gen", "g", "Generator to use, one of "+flagGenerator.HelpString())
	cmd.RegisterFlagCompletionFunc("gen", flagGenerator.CompletionFunc())
	cmd.Flags().Var(&flagSep, "sep", "Path separator written to the build file, one of "+flagSep.HelpString())
	cmd.RegisterFlagCompletionFunc("sep", flagSep.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
