package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"blobdeps/internal/config"
	"blobdeps/internal/logging"
	"blobdeps/internal/model"
	"blobdeps/internal/resolve"
	"blobdeps/internal/tui"
	"blobdeps/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "JackpotClavin",
		Repository: "Android-Blob-Utility",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/JackpotClavin/Android-Blob-Utility/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: blobdeps [options] [file ...]\n\n")
		fmt.Fprintf(os.Stderr, "blobdeps lists the proprietary libraries a binary from a stock Android\n")
		fmt.Fprintf(os.Stderr, "system dump needs, including the ones loaded at runtime by name.\n")
		fmt.Fprintf(os.Stderr, "Each blob is printed as a PRODUCT_COPY_FILES line.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  blobdeps --root ~/dump mm-qcamera-daemon   # Print blob lines\n")
		fmt.Fprintf(os.Stderr, "  blobdeps -i                                # Ask for settings and files\n")
		fmt.Fprintf(os.Stderr, "  blobdeps -r -o r.txt camera.msm8974.so     # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  blobdeps -t mm-qcamera-daemon              # Browse results\n")
		fmt.Fprintf(os.Stderr, "  blobdeps --web                             # Serve scans on http://localhost:8080\n")
	}

	configFlag := pflag.String("config", config.DefaultFile, "YAML settings file")
	rootFlag := pflag.String("root", "", "System dump root (the directory holding build.prop)")
	vendorFlag := pflag.String("vendor", "", "Vendor name used in blob lines (default from build.prop)")
	deviceFlag := pflag.String("device", "", "Device name used in blob lines (default from build.prop)")
	sdkFlag := pflag.Int("sdk", 0, "SDK level selecting the baseline manifest (default from build.prop)")
	indexDirFlag := pflag.String("index-dir", "", "Directory holding sdk_<N>.txt baseline manifests")
	interactiveFlag := pflag.BoolP("interactive", "i", false, "Ask for settings and file names on the terminal")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the full result as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Generate a summary report instead of blob lines")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include the discovery trail in the report")
	tuiFlag := pflag.BoolP("tui", "t", false, "Browse the results in a terminal UI")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	addrFlag := pflag.String("addr", ":8080", "Listen address for --web")
	logLevelFlag := pflag.String("log-level", "warn", "Diagnostic level (debug, info, warn, error)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("blobdeps version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	log := logging.New(loggerConfig(*logLevelFlag, *tuiFlag))

	settings := config.Defaults()
	if err := config.LoadFile(*configFlag, &settings); err != nil {
		if pflag.Lookup("config").Changed || !errors.Is(err, fs.ErrNotExist) {
			fatal(err)
		}
	}
	if pflag.Lookup("root").Changed {
		settings.Root = *rootFlag
	}

	targets := pflag.Args()
	if *interactiveFlag {
		p, err := config.NewPrompter(os.Stdin, os.Stderr)
		if err != nil {
			fatal(err)
		}
		override := func(s *config.Settings) {
			applyFlags(s, *vendorFlag, *deviceFlag, *sdkFlag, *indexDirFlag)
		}
		if err := p.AskSettings(&settings, override); err != nil {
			p.Close()
			fatal(err)
		}
		if len(targets) == 0 {
			if targets, err = p.AskTargets(); err != nil {
				p.Close()
				fatal(err)
			}
		}
		p.Close()
	} else {
		bp, err := config.LoadBuildProp(settings.Root)
		if err != nil {
			fatal(err)
		}
		bp.Apply(&settings)
		applyFlags(&settings, *vendorFlag, *deviceFlag, *sdkFlag, *indexDirFlag)
	}

	if err := settings.Validate(); err != nil {
		fatal(err)
	}
	data, err := config.LoadIndex(settings)
	if err != nil {
		fatal(err)
	}
	index := resolve.NewIndex(data)

	log.Debug().
		Str("root", settings.Root).
		Str("vendor", settings.Vendor).
		Str("device", settings.Device).
		Int("sdk", settings.SDK).
		Int("index_bytes", len(data)).
		Msg("settings")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *webFlag {
		runWebMode(ctx, settings, index, log, *addrFlag)
		return
	}

	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files named")
		pflag.Usage()
		os.Exit(2)
	}

	scan := func(out io.Writer) (model.Result, error) {
		return runScan(ctx, settings, index, log, out, targets)
	}

	switch {
	case *tuiFlag:
		runTuiMode(func() (model.Result, error) { return scan(io.Discard) })
	case *reportFlag:
		runReportMode(scan, *outputFlag, *verboseFlag)
	case *jsonFlag:
		runJsonMode(scan)
	default:
		if _, err := scan(os.Stdout); err != nil {
			fatal(err)
		}
		fmt.Fprintln(os.Stderr, "Completed successfully.")
	}
}

// loggerConfig builds the diagnostic logger settings. The TUI owns the
// terminal, so it gets no log output; diagnostics reach it through the result.
func loggerConfig(level string, tui bool) logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = level
	if tui {
		cfg.Output = io.Discard
		cfg.Pretty = false
	}
	return cfg
}

// applyFlags overrides settings with the flags given on the command line,
// after build.prop has supplied its values.
func applyFlags(s *config.Settings, vendor, device string, sdk int, indexDir string) {
	if pflag.Lookup("vendor").Changed {
		s.Vendor = vendor
	}
	if pflag.Lookup("device").Changed {
		s.Device = device
	}
	if pflag.Lookup("sdk").Changed {
		s.SDK = sdk
	}
	if pflag.Lookup("index-dir").Changed {
		s.IndexDir = indexDir
	}
}

// runScan resolves every target in one run, writing blob lines to out. A
// target missing from the dump is logged and the rest still run.
func runScan(ctx context.Context, s config.Settings, index *resolve.Index, log zerolog.Logger, out io.Writer, targets []string) (model.Result, error) {
	r := resolve.New(s.ResolverOptions(), index, out, log)
	for _, t := range targets {
		if err := r.ResolveTarget(ctx, t); err != nil {
			if errors.Is(err, resolve.ErrTargetNotFound) {
				continue
			}
			return r.Result(), err
		}
	}
	return r.Result(), nil
}

func runReportMode(scan func(io.Writer) (model.Result, error), outputFile string, verbose bool) {
	result, err := scan(io.Discard)
	if err != nil {
		fatal(err)
	}

	report := resolve.GenerateReport(result, verbose)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(report)
	}
}

func runJsonMode(scan func(io.Writer) (model.Result, error)) {
	result, err := scan(io.Discard)
	if err != nil {
		fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}

func runTuiMode(scan tui.ScanFunc) {
	m := tui.InitialModel(scan)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func runWebMode(ctx context.Context, s config.Settings, index *resolve.Index, log zerolog.Logger, addr string) {
	fmt.Printf("Starting web server at http://localhost%s\n", addr)
	if err := web.NewServer(s, index, log).ListenAndServe(ctx, addr); err != nil {
		fatal(err)
	}
}
