package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/module"
	"github.com/hemlock-lang/hemlock/pkg/hemlock"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	evalCode        string
	interactiveFile bool
	compileFlag     bool
	outputFile      string
	debugInfo       bool
	stdlibRoot      string
)

var rootCmd = &cobra.Command{
	Use:   "hemlock [FILE] [ARGS...]",
	Short: "Hemlock interpreter and bytecode compiler",
	Long: `hemlock runs Hemlock programs: a dynamically-typed scripting
language with closures, cooperative tasks, and a compact binary AST
format for precompiled distribution.

Examples:
  hemlock                       start the REPL
  hemlock script.hml arg1 arg2  run a source file, args exposed as 'args'
  hemlock script.hmlc           run a precompiled bytecode file
  hemlock -c 'print(1 + 2);'    evaluate inline code
  hemlock --compile script.hml  serialize script.hml's AST to script.hmlc
  hemlock -i script.hml         run script.hml, then drop into a REPL
  hemlock lsp --stdio           start the language server`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().StringVarP(&evalCode, "eval", "c", "", "evaluate inline code instead of reading a file")
	rootCmd.Flags().BoolVarP(&interactiveFile, "interactive", "i", false, "run FILE, then drop into a REPL sharing its bindings")
	rootCmd.Flags().BoolVar(&compileFlag, "compile", false, "compile FILE to bytecode instead of running it")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "bytecode output path (default: FILE with .hmlc extension)")
	rootCmd.Flags().BoolVar(&debugInfo, "debug", false, "embed source positions in compiled bytecode")
	rootCmd.PersistentFlags().StringVar(&stdlibRoot, "stdlib", "", "directory @stdlib/... imports resolve against")
}

func runRoot(_ *cobra.Command, args []string) error {
	engine, err := hemlock.New(hemlock.WithStdlibRoot(resolveStdlibRoot(args)))
	if err != nil {
		return err
	}

	switch {
	case compileFlag:
		return runCompile(engine, args)
	case evalCode != "":
		return runEval(engine, evalCode)
	case len(args) == 0:
		return runREPL(engine)
	case interactiveFile:
		if err := runFile(engine, args[0], args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return runREPL(engine)
	default:
		return runFile(engine, args[0], args[1:])
	}
}

// resolveStdlibRoot returns the --stdlib flag when given explicitly,
// otherwise looks for a hemlock.yaml beside the script (or in the
// working directory when running the REPL or -c) and falls back to
// its stdlib_root key, so a project need not repeat --stdlib on every
// invocation.
func resolveStdlibRoot(args []string) string {
	if stdlibRoot != "" {
		return stdlibRoot
	}

	dir := "."
	if len(args) > 0 {
		dir = filepath.Dir(args[0])
	}

	cfg, err := module.LoadConfig(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ""
	}
	if cfg == nil || cfg.StdlibRoot == "" {
		return ""
	}
	if filepath.IsAbs(cfg.StdlibRoot) {
		return cfg.StdlibRoot
	}
	return filepath.Join(dir, cfg.StdlibRoot)
}

func runFile(engine *hemlock.Engine, path string, scriptArgs []string) error {
	_, err := engine.RunFile(path, scriptArgs)
	return err
}

func runEval(engine *hemlock.Engine, code string) error {
	v, err := engine.Eval(code)
	if err != nil {
		return err
	}
	fmt.Println(v.String())
	return nil
}

func runCompile(engine *hemlock.Engine, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("--compile takes exactly one FILE argument")
	}
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("IOError: %s", err)
	}

	data, err := engine.CompileToBytecode(path, string(src), debugInfo)
	if err != nil {
		return err
	}

	out := outputFile
	if out == "" {
		ext := filepath.Ext(path)
		if ext != "" {
			out = strings.TrimSuffix(path, ext) + ".hmlc"
		} else {
			out = path + ".hmlc"
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("IOError: failed to write %s: %s", out, err)
	}
	fmt.Printf("Compiled %s -> %s\n", path, out)
	return nil
}
