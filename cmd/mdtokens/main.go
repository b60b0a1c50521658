package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"pkt.systems/mdtokens"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultTimeout   = 30 * time.Second
)

func init() {
	version.SetDefaultModule("pkt.systems/mdtokens")
}

type options struct {
	input      string
	format     string
	output     string
	blockType  string
	maxDepth   int
	width      int
	color      string
	themeName  string
	configPath string
	verbose    bool
	listThemes bool
	timeout    time.Duration
	args       []string
}

// errUsage marks errors caused by bad flags or config values.
var errUsage = errors.New("usage")

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	logger, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if opts.listThemes {
		printThemes(os.Stdout)
		return
	}
	if err := run(context.Background(), logger, opts, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		logger.Error("mdtokens failed", zap.Error(err))
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	flags := pflag.NewFlagSet("mdtokens", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.input, "input", "i", "auto", "Input format: auto|json|yaml|markdown")
	flags.StringVarP(&opts.format, "format", "f", "json", "Output format: json|yaml|tree|diff")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file instead of stdout")
	flags.StringVar(&opts.blockType, "block-type", mdtokens.TypeParagraph, "Node type dissolved when only tokens remain")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum tree depth (0 is unlimited)")
	flags.IntVarP(&opts.width, "width", "w", 0, "Tree output width (0 uses terminal width if available)")
	flags.StringVar(&opts.color, "color", "auto", "Colored tree output: auto|on|off")
	flags.StringVarP(&opts.themeName, "theme", "t", defaultThemeName, "Theme name for tree output")
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML config file (default $MDTOKENS_CONFIG)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
	flags.BoolVar(&opts.listThemes, "list-themes", false, "List available themes")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Timeout for http(s) inputs")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdtokens [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. Without inputs stdin is read.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	path := opts.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.apply(flags); err != nil {
			return nil, err
		}
	}
	opts.args = flags.Args()
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func run(ctx context.Context, logger *zap.Logger, opts *options, stdin io.Reader, stdout io.Writer) error {
	inFormat, err := mdtokens.ParseFormat(opts.input)
	if err != nil {
		return fmt.Errorf("%w: invalid --input %q: %v", errUsage, opts.input, err)
	}
	outFormat, err := parseOutputFormat(opts.format)
	if err != nil {
		return fmt.Errorf("%w: invalid --format %q: %v", errUsage, opts.format, err)
	}
	theme, ok := mdtokens.ThemeByName(opts.themeName)
	if !ok {
		return fmt.Errorf("%w: unknown theme %q (available: %s)", errUsage, opts.themeName, strings.Join(mdtokens.AvailableThemes(), ", "))
	}
	if opts.maxDepth < 0 {
		return fmt.Errorf("%w: --max-depth must not be negative", errUsage)
	}
	if strings.TrimSpace(opts.blockType) == "" {
		return fmt.Errorf("%w: --block-type must not be empty", errUsage)
	}
	sources, err := openInputs(opts.args, stdin)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}

	writer, closeOut, err := resolveOutput(opts.output, stdout)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	colored, err := resolveColor(opts.color, writer)
	if err != nil {
		return fmt.Errorf("%w: invalid --color %q: %v", errUsage, opts.color, err)
	}
	if !colored {
		theme = mdtokens.BoringTheme()
	}
	p := processor{
		logger:    logger,
		inFormat:  inFormat,
		outFormat: outFormat,
		parseOpts: []mdtokens.Option{
			mdtokens.WithCollapsibleType(opts.blockType),
			mdtokens.WithMaxDepth(opts.maxDepth),
		},
		printOpts: []mdtokens.PrintOption{
			mdtokens.WithWidth(resolveWidth(opts.width)),
			mdtokens.WithTheme(theme),
		},
		timeout: opts.timeout,
		multi:   len(sources) > 1,
	}
	for i, src := range sources {
		if err := p.process(ctx, writer, src, i); err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
	}
	return nil
}

type outputFormat int

const (
	outputJSON outputFormat = iota
	outputYAML
	outputTree
	outputDiff
)

func parseOutputFormat(name string) (outputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return outputJSON, nil
	case "yaml", "yml":
		return outputYAML, nil
	case "tree":
		return outputTree, nil
	case "diff":
		return outputDiff, nil
	default:
		return 0, fmt.Errorf("expected json|yaml|tree|diff")
	}
}

type processor struct {
	logger    *zap.Logger
	inFormat  mdtokens.Format
	outFormat outputFormat
	parseOpts []mdtokens.Option
	printOpts []mdtokens.PrintOption
	timeout   time.Duration
	multi     bool
}

func (p processor) process(ctx context.Context, w io.Writer, src inputSource, index int) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	tree, err := src.load(ctx, p.inFormat)
	if err != nil {
		return err
	}
	var before *mdtokens.Node
	if p.outFormat == outputDiff {
		before = tree.Clone()
	}
	if _, err := mdtokens.ParseTokens(tree, p.parseOpts...); err != nil {
		return err
	}
	p.logger.Debug("parsed tokens",
		zap.String("input", src.name),
		zap.Int("assignments", len(mdtokens.Assignments(tree))),
		zap.Int("markers", len(mdtokens.Markers(tree))),
	)

	switch p.outFormat {
	case outputJSON:
		return mdtokens.EncodeTree(w, tree, mdtokens.FormatJSON)
	case outputYAML:
		if index > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		return mdtokens.EncodeTree(w, tree, mdtokens.FormatYAML)
	case outputTree:
		if err := p.header(w, src, index); err != nil {
			return err
		}
		return mdtokens.Fprint(w, tree, p.printOpts...)
	default:
		if err := p.header(w, src, index); err != nil {
			return err
		}
		_, err := io.WriteString(w, mdtokens.Diff(before, tree))
		return err
	}
}

func (p processor) header(w io.Writer, src inputSource, index int) error {
	if !p.multi {
		return nil
	}
	sep := ""
	if index > 0 {
		sep = "\n"
	}
	_, err := fmt.Fprintf(w, "%s==> %s <==\n", sep, src.name)
	return err
}

func printThemes(w io.Writer) {
	for _, name := range mdtokens.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return mdtokens.DetectColorSupport(f.Fd()), nil
	case "on", "true", "1", "yes", "always":
		return true, nil
	case "off", "false", "0", "no", "never":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// inputSource loads one input into a tree.
type inputSource struct {
	name string
	load func(ctx context.Context, format mdtokens.Format) (*mdtokens.Node, error)
}

func openInputs(args []string, stdin io.Reader) ([]inputSource, error) {
	if len(args) == 0 {
		return []inputSource{{
			name: "-",
			load: func(_ context.Context, format mdtokens.Format) (*mdtokens.Node, error) {
				return mdtokens.DecodeTree(stdin, format)
			},
		}}, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw, stdin)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func makeInputSource(raw string, stdin io.Reader) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return inputSource{name: raw, load: func(_ context.Context, format mdtokens.Format) (*mdtokens.Node, error) {
			return mdtokens.DecodeTree(stdin, format)
		}}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: raw, load: func(ctx context.Context, format mdtokens.Format) (*mdtokens.Node, error) {
				return mdtokens.FetchTree(ctx, mdtokens.FetchRequest{URL: raw, Format: format})
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{name: raw, load: func(_ context.Context, format mdtokens.Format) (*mdtokens.Node, error) {
				return loadFile(path, format)
			}}, nil
		}
	}
	return inputSource{name: raw, load: func(_ context.Context, format mdtokens.Format) (*mdtokens.Node, error) {
		return loadFile(raw, format)
	}}, nil
}

// loadFile decodes a file, picking the format from its extension when format is auto.
func loadFile(path string, format mdtokens.Format) (*mdtokens.Node, error) {
	clean := normalizePath(path)
	f, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if format == mdtokens.FormatAuto {
		format = formatFromExt(clean)
	}
	return mdtokens.DecodeTree(f, format)
}

func formatFromExt(path string) mdtokens.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return mdtokens.FormatJSON
	case ".yaml", ".yml":
		return mdtokens.FormatYAML
	case ".md", ".markdown", ".mdown":
		return mdtokens.FormatMarkdown
	default:
		return mdtokens.FormatAuto
	}
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" || path == "-" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
