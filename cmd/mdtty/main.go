package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/mdtty"
	"pkt.systems/mdtty/internal/logging"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultChunkSize = 3
	defaultDelay     = 20 * time.Millisecond
)

func init() {
	version.SetDefaultModule("pkt.systems/mdtty")
}

type options struct {
	simulate    bool
	chunkSize   int
	delay       time.Duration
	theme       string
	width       int
	osc8        string
	listThemes  bool
	output      string
	boring      bool
	noSoftWrap  bool
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func newFlagSet(o *options, stderr io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("mdtty", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&o.simulate, "simulate", false, "Stream simulator (use default delay and chunk size)")
	flags.IntVar(&o.chunkSize, "simulate-chunk", defaultChunkSize, "Runes per simulated chunk")
	flags.DurationVar(&o.delay, "simulate-delay", defaultDelay, "Delay between simulated chunks")
	flags.StringVarP(&o.theme, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&o.width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&o.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&o.listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&o.output, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&o.boring, "boring", "b", false, "Generate non-ANSI output")
	flags.BoolVar(&o.noSoftWrap, "no-soft-wrap", false, "Do not wrap paragraph text at the output width")
	flags.StringVar(&o.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	flags.StringVar(&o.logFormat, "log-format", "text", "Log format: text|json|json-pretty")
	flags.BoolVarP(&o.showVersion, "version", "v", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdtty [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. If none is given, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "Every flag can also be set as MDTTY_<FLAG>, e.g. MDTTY_THEME=nord.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	return flags
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var o options
	flags := newFlagSet(&o, stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return 2
	}
	if err := applyEnv(flags); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if o.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}
	if o.listThemes {
		printThemes(stdout)
		return 0
	}

	log, err := logging.New(o.logLevel, o.logFormat, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	theme, ok := mdtty.ThemeByName(o.theme)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", o.theme)
		printThemes(stderr)
		return 2
	}
	if o.boring {
		theme = mdtty.BoringTheme()
	}
	osc8, err := resolveOSC8(o.osc8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", o.osc8, err)
		return 2
	}
	if o.simulate && o.chunkSize <= 0 {
		fmt.Fprintf(stderr, "invalid --simulate-chunk %d: must be > 0\n", o.chunkSize)
		return 2
	}

	writer, closeOut, err := resolveOutput(o.output, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	width := resolveWidth(o.width, writer)
	log.WithFields(logrus.Fields{
		"theme":  theme.Name(),
		"width":  width,
		"osc8":   osc8,
		"inputs": len(flags.Args()),
	}).Debug("render start")

	job := renderJob{
		inputs: flags.Args(),
		stdin:  stdin,
		writer: writer,
		width:  width,
		theme:  theme,
		opts: []mdtty.RenderOption{
			mdtty.WithOSC8(osc8),
			mdtty.WithSoftWrap(!o.noSoftWrap),
			mdtty.WithLogger(log),
		},
	}
	if o.simulate {
		job.chunkSize = o.chunkSize
		job.delay = o.delay
	}
	if err := job.run(ctx); err != nil {
		log.WithError(err).Debug("render failed")
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

type renderJob struct {
	inputs    []string
	stdin     io.Reader
	writer    io.Writer
	width     int
	theme     mdtty.Theme
	opts      []mdtty.RenderOption
	chunkSize int
	delay     time.Duration
}

func (j renderJob) run(ctx context.Context) error {
	if len(j.inputs) == 1 && isHTTPURL(j.inputs[0]) && j.chunkSize == 0 {
		return mdtty.HTTPRender(ctx, mdtty.HTTPRenderRequest{
			URL:     strings.TrimSpace(j.inputs[0]),
			Writer:  j.writer,
			Width:   j.width,
			Theme:   j.theme,
			Options: j.opts,
		})
	}

	reader, closer, err := openInputs(ctx, j.inputs, j.stdin)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = closer.Close() }()

	if j.chunkSize > 0 {
		return mdtty.Simulate(ctx, mdtty.SimulateRequest{
			Reader:    reader,
			Writer:    j.writer,
			Width:     j.width,
			Theme:     j.theme,
			ChunkSize: j.chunkSize,
			Delay:     j.delay,
			Options:   j.opts,
		})
	}
	return mdtty.Render(mdtty.RenderRequest{
		Reader:  reader,
		Writer:  j.writer,
		Width:   j.width,
		Theme:   j.theme,
		Options: j.opts,
	})
}

func printThemes(w io.Writer) {
	for _, name := range mdtty.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int, out io.Writer) int {
	if width > 0 {
		return width
	}
	return terminalWidth(out, defaultWidth)
}

func terminalWidth(out io.Writer, fallback int) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
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

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdtty.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}
