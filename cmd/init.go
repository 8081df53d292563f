// nmakegen init [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/qobs-build/nmakegen/internal/builder"
	"github.com/qobs-build/nmakegen/internal/msg"
	"github.com/spf13/cobra"
)

const configTemplate = `# nmakegen configuration. Every key is optional, the values below are the defaults.
# Strings may use {{ project }}, {{ target_os }}, {{ target_arch }} and {{ environ.NAME }}.

[layout]
src-dir = "src"
obj-dir = "obj"
bin-dir = "bin"
target = "{{ project }}.exe"
output = "makefile.nmake"

[compiler]
name = "cl.exe"
flags = ["/EHsc", "/W4", "/Iinclude"]
obj-ext = ".obj"

# Tables keyed by an expression are merged in when it is true:
# [compiler."environ.CONFIGURATION == 'Release'"]
# flags = ["/O2"]

[scan]
ext = ".cpp"
exclude = []
gitignore = false
`

const mainTemplate = `#include <iostream>

int main() {
    std::cout << "Hello, World!" << std::endl;
    return 0;
}
`

// writefile creates a file unless it already exists
func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "nmakegen"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// initIn scaffolds a project in dir, keeping every file that already exists
func initIn(dir string) {
	mkdir(dir)
	writefile(configTemplate, dir, builder.ConfigFilename)

	mkdir(dir, "src")
	mkdir(dir, "include")
	writefile(mainTemplate, dir, "src", "main.cpp")

	writefile(`obj/
bin/
`, dir, ".gitignore")

	fmt.Printf("You can now do %s to write the makefile, then %s to build.\n",
		color.HiCyanString(getProgramName()+" "+dir), color.HiCyanString("nmake /f makefile.nmake"))
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a project skeleton and config file",
	Long:  `Create a project skeleton and config file. If no path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		initIn(dir)
	},
}

func init() {
	// nmakegen init subcommand
	rootCmd.AddCommand(initCmd)
}
