package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/bindgen"
	"github.com/wippyai/canon-abi/eval"
)

type config struct {
	witFile  string
	sig      string
	funcName string
	dir      string
	pkg      string
	trusted  bool
	instrs   bool
}

func main() {
	var (
		cfg         config
		verbose     = flag.Bool("v", false, "Log generation details")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.StringVar(&cfg.witFile, "wit", "", "Path to a WIT file")
	flag.StringVar(&cfg.sig, "sig", "", "Inline WIT function signatures")
	flag.StringVar(&cfg.funcName, "func", "", "Function to generate (default: all)")
	flag.StringVar(&cfg.dir, "dir", "export", "Binding direction: import or export")
	flag.StringVar(&cfg.pkg, "pkg", "", "Emit one Go file in this package")
	flag.BoolVar(&cfg.trusted, "trusted", false, "Skip validation of values read from the guest")
	flag.BoolVar(&cfg.instrs, "instrs", false, "Print the instruction stream before the code")
	flag.Parse()

	if cfg.witFile == "" && cfg.sig == "" {
		fmt.Fprintln(os.Stderr, "Usage: canongen -wit <file.wit> [-func name] [-dir import|export] [-trusted] [-instrs]")
		fmt.Fprintln(os.Stderr, "       canongen -sig 'f: func(x: u32) -> string;'")
		fmt.Fprintln(os.Stderr, "       canongen -wit <file.wit> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		bindgen.SetLogger(logger.Named("bindgen"))
		eval.SetLogger(logger.Named("eval"))
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(os.Stdout, cfg, styled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, cfg config, styled bool) error {
	bindings, err := load(cfg)
	if err != nil {
		return err
	}

	if cfg.pkg != "" {
		src, err := bindgen.File(cfg.pkg, bindings...)
		if err != nil {
			return err
		}
		_, err = w.Write(src)
		return err
	}

	heading := func(s string) string { return "// " + s }
	if styled {
		heading = func(s string) string { return titleStyle.Render(s) }
	}

	for i, b := range bindings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, heading(fmt.Sprintf("%s (%s) %s", b.Target.Name, b.Variant, signature(b))))
		if cfg.instrs {
			listing := b.Listing()
			if styled {
				listing = helpStyle.Render(listing)
			}
			fmt.Fprintln(w, listing)
		}
		src, err := b.Source()
		if err != nil {
			return err
		}
		fmt.Fprint(w, src)
	}
	return nil
}

// load parses the configured WIT text and generates the selected bindings.
func load(cfg config) ([]*bindgen.Binding, error) {
	text := cfg.sig
	if cfg.witFile != "" {
		data, err := os.ReadFile(cfg.witFile)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		text = string(data)
	}

	variant, err := parseVariant(cfg.dir)
	if err != nil {
		return nil, err
	}

	funcs, err := bindgen.ParseFunctions(text)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if cfg.funcName != "" {
		var found []*abi.Func
		for _, f := range funcs {
			if f.Name == cfg.funcName {
				found = append(found, f)
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("function %q not found", cfg.funcName)
		}
		funcs = found
	}

	opts := bindgen.DefaultOptions()
	opts.Trusted = cfg.trusted
	bindings, err := bindgen.GenerateAll(funcs, variant, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return bindings, nil
}

func parseVariant(dir string) (abi.Variant, error) {
	switch strings.ToLower(dir) {
	case "export", "":
		return abi.GuestExport, nil
	case "import":
		return abi.GuestImport, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want import or export)", dir)
}

// signature renders the core wasm signature of a binding.
func signature(b *bindgen.Binding) string {
	types := func(ts []string) string { return "(" + strings.Join(ts, ", ") + ")" }
	params := make([]string, len(b.Signature.Params))
	for i, t := range b.Signature.Params {
		params[i] = api.ValueTypeName(t)
	}
	results := make([]string, len(b.Signature.Results))
	for i, t := range b.Signature.Results {
		results[i] = api.ValueTypeName(t)
	}
	return types(params) + " -> " + types(results)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)
