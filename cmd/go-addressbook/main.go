package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/tartampluch/go-addressbook/internal/cli"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// Flags is the command line of go-addressbook.
type Flags struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Debug   bool             `help:"Log at debug level, also to stdout." short:"d"`
	Config  string           `help:"YAML settings file. Environment variables override it." placeholder:"FILE"`
	Lang    string           `help:"Console language (en, uk). Overrides the settings."`
	Today   string           `help:"Use this date (YYYY-MM-DD) as today." placeholder:"DATE"`
}

// main is the application entry point.
// os.Exit does not run defers, so the real work happens in runMain.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(args []string) int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	flags, err := parseFlags(args, os.Stdout, os.Stderr, os.Exit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return config.ExitCodeError
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(flags.Debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, flags, os.Stdin, os.Stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// parseFlags reads args into Flags. exit is called by kong for --help and --version.
func parseFlags(args []string, stdout, stderr io.Writer, exit func(int)) (*Flags, error) {
	var flags Flags
	parser, err := kong.New(&flags,
		kong.Name("go-addressbook"),
		kong.Description(config.AppName+": contacts and birthdays in the console."),
		kong.Vars{"version": fmt.Sprintf("%s (%s, %s)", config.Version, config.Commit, config.Date)},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &flags, nil
}

// run loads the settings, wires the console and blocks until it ends.
func run(ctx context.Context, flags *Flags, in io.Reader, out io.Writer) error {
	settings, err := config.LoadSettings(flags.Config)
	if err != nil {
		return err
	}
	if flags.Lang != "" {
		settings.Language = flags.Lang
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	clock, err := newClock(flags.Today)
	if err != nil {
		return err
	}

	if !flags.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	return cli.New(settings, clock, in, out).Run(ctx)
}

// newClock returns the wall clock, or a fixed one when today is set.
func newClock(today string) (engine.Clock, error) {
	if today == "" {
		return engine.RealClock{}, nil
	}
	t, err := time.ParseInLocation(config.DateFormatFullDash, today, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	return engine.FixedClock{Time: t}, nil
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Logs go to a file in the
// user cache dir; stdout is added in debug mode only so the console stays readable.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debugMode {
		writers = append(writers, os.Stdout)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
