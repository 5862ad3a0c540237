package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/diag"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/maruel/natural"
	"github.com/spf13/cobra"
)

var checkRecursive bool

var checkCmd = &cobra.Command{
	Use:   "check [files or directories...]",
	Short: "Parse Hemlock source files and report diagnostics without running them",
	Long: `check parses one or more .hml files and reports any parse
errors, without evaluating them.

  hemlock check script.hml        check a single file
  hemlock check -r src/           check every .hml file under src/

Files are reported in natural sort order (file2.hml before file10.hml)
rather than byte order, so a directory of numbered scripts reads the
way a person would list them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", false, "check directories recursively")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	files, err := collectHmlFiles(args, checkRecursive)
	if err != nil {
		return err
	}
	sort.Slice(files, func(i, j int) bool { return natural.Less(files[i], files[j]) })

	failed := false
	for _, path := range files {
		if err := checkFile(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("one or more files failed to parse")
	}
	fmt.Printf("%d file(s) OK\n", len(files))
	return nil
}

func checkFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("IOError: %s", err)
	}
	if _, err := parser.Parse(path, string(src)); err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			return diag.New(diag.ParseError, pe.Pos, pe.Msg, string(src))
		}
		return err
	}
	return nil
}

// collectHmlFiles expands args (files or, with recursive set,
// directories) into a flat list of .hml file paths, mirroring the
// teacher's fmt command's processPath/processDirectory split.
func collectHmlFiles(args []string, recursive bool) ([]string, error) {
	var files []string
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("IOError: %s", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		if !recursive {
			return nil, fmt.Errorf("%s is a directory (use -r to check it recursively)", path)
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && strings.HasSuffix(p, ".hml") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("IOError: %s", err)
		}
	}
	return files, nil
}
