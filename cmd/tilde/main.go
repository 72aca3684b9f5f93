// tilde CLI - runs tilde scripts and the interactive shell
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tliron/commonlog"

	"github.com/chazu/tilde/config"
	"github.com/chazu/tilde/interp"
	"github.com/chazu/tilde/model"
	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/server"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tilde")

// verbosity is a flag that counts its occurrences: -v -v gives 2.
type verbosity int

func (v *verbosity) String() string   { return strconv.Itoa(int(*v)) }
func (v *verbosity) IsBoolFlag() bool { return true }

func (v *verbosity) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if b {
		*v++
	}
	return nil
}

func main() {
	var verbose verbosity
	flag.Var(&verbose, "v", "Verbose output (repeat for more)")
	interactive := flag.Bool("i", false, "Start interactive shell")
	expr := flag.String("e", "", "Evaluate the given statements")
	configDir := flag.String("config", "", "Directory containing tilde.toml (default: search upward from the working directory)")
	seed := flag.String("seed", "", "Random seed (default: from tilde.toml, else the clock)")
	noEcho := flag.Bool("no-echo", false, "Do not print the values of top-level expressions")
	lspMode := flag.Bool("lsp", false, "Start the language server on stdio")
	dumpAST := flag.Bool("dump-ast", false, "Print the syntax tree of each script instead of running it")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tilde [options] [scripts...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs tilde scripts, then starts the interactive shell if requested.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tilde                       # Start the shell\n")
		fmt.Fprintf(os.Stderr, "  tilde model.tl              # Run a script\n")
		fmt.Fprintf(os.Stderr, "  tilde -i model.tl           # Run a script, then start the shell\n")
		fmt.Fprintf(os.Stderr, "  tilde -e 'x ~ dnorm(0, 1); x' -seed 7\n")
		fmt.Fprintf(os.Stderr, "  tilde -dump-ast model.tl    # Show the parsed syntax tree\n")
		fmt.Fprintf(os.Stderr, "  tilde -lsp                  # Language server for editors\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	commonlog.Configure(cfg.Log.Verbosity+int(verbose), cfg.LogFile())

	paths := flag.Args()

	if *dumpAST {
		if err := dumpPaths(paths); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	rngSeed, err := chooseSeed(*seed, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	lib := model.NewLibrary(rngSeed)
	log.Infof("random seed %d", rngSeed)

	in := interp.New()
	in.DefineBuiltins(lib.Builtins())
	in.SetHelper(lib)
	in.SetEcho(cfg.Echo() && !*noEcho)

	// Start language server if requested
	if *lspMode {
		if err := server.NewLSP(in, lib).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	scripts := append(cfg.StartupPaths(), paths...)
	for _, path := range scripts {
		if err := in.RunFile(path); err != nil {
			exit(err)
		}
	}

	if *expr != "" {
		if _, err := in.EvalString(*expr); err != nil {
			exit(err)
		}
	}

	// Start the shell if requested or if there is nothing else to do
	if *interactive || (len(paths) == 0 && *expr == "") {
		runREPL(in, cfg)
	}
}

// exit reports err and stops. quit() is a normal exit.
func exit(err error) {
	if errors.Is(err, interp.ErrQuit) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

// chooseSeed prefers the flag, then the config file, then the clock.
func chooseSeed(flagValue string, cfg *config.Config) (uint64, error) {
	if flagValue != "" {
		n, err := strconv.ParseUint(flagValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid -seed %q: %w", flagValue, err)
		}
		return n, nil
	}
	if n, ok := cfg.Seed(); ok {
		return n, nil
	}
	return uint64(time.Now().UnixNano()), nil
}

// dumpPaths prints the CBOR diagnostic notation of each script's syntax
// tree.
func dumpPaths(paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		prog, err := parser.Parse(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		text, err := parser.Diagnose(prog)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("# %s\n%s\n", path, text)
	}
	return nil
}

func runREPL(in *interp.Interpreter, cfg *config.Config) {
	fmt.Println("tilde shell (quit() or q() to exit, ?topic for help)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	residue := ""

	for {
		// Show prompt
		if residue == "" {
			fmt.Print(cfg.Session.Prompt)
		} else {
			fmt.Print(cfg.Session.ContinuationPrompt)
		}

		if !scanner.Scan() {
			break
		}

		status, rest, err := in.ProcessCommand(residue + scanner.Text() + "\n")
		residue = rest
		if errors.Is(err, interp.ErrQuit) {
			return
		}
		if status == interp.StatusError {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	fmt.Println()
}
