// nmakegen list [path]
package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/qobs-build/nmakegen/internal/msg"
	"github.com/spf13/cobra"
)

func printPairs(w io.Writer, title string, from, to []string) {
	fmt.Fprintf(w, "%s (%d)\n", color.HiCyanString(title), len(from))
	iw := &msg.IndentWriter{Indent: "    ", W: w}
	for i := range from {
		fmt.Fprintf(iw, "%s -> %s\n", from[i], to[i])
	}
}

func doList(cmd *cobra.Command, args []string) {
	b := loadBuilder(args)

	plan, err := b.Plan()
	if err != nil {
		msg.Fatal("%v", err)
	}

	w := cmd.OutOrStdout()
	printPairs(w, "Source directories", plan.SourceDirs, plan.ObjectDirs)
	printPairs(w, "Source files", plan.Sources, plan.Objects)
}

var listCmd = &cobra.Command{
	Use:   "list [project root]",
	Short: "List the discovered source directories and files",
	Long: `List every source directory and source file together with the object
directory and object file it maps to. If no project root is given, uses "."`,
	Args: cobra.MaximumNArgs(1),
	Run:  doList,
}

func init() {
	// nmakegen list subcommand
	rootCmd.AddCommand(listCmd)
	addProjectFlags(listCmd)
}
