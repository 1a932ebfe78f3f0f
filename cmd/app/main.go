package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"forthic/internal/errors"
	"forthic/internal/interp"
	"forthic/internal/repl"
	"forthic/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// interpreter config
	timezone   string
	evalCode   string
	configFile string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// interpreter config
	flag.StringVar(&timezone, "tz", "", "IANA timezone for datetime literals (default UTC)")
	flag.StringVar(&evalCode, "c", "", "Run the given Forthic code and exit")
	flag.StringVar(&configFile, "config", "", "Path to a TOML config file")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		Timezone:  timezone,
		LogLevel:  logLevel,
		LogFile:   logFile,
	}
	if configFile != "" {
		if err := config.LoadFile(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config '%s': %v\n", configFile, err)
			os.Exit(1)
		}
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	defaultLogger := slog.New(slog.NewJSONHandler(configureLogWriter(config.LogFile), loggerOptions))
	slog.SetDefault(defaultLogger)

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	i, err := interp.NewStandard(config.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad timezone '%s': %v\n", config.Timezone, err)
		os.Exit(1)
	}

	switch {
	case evalCode != "":
		runAndReport(i, evalCode)
	case flag.Arg(0) != "":
		runScript(i, flag.Arg(0))
	case config.Script != "":
		runScript(i, config.Script)
	default:
		fmt.Printf("Forthic v%s\n", Version)
		repl.Start(os.Stdin, os.Stdout, i)
	}
}

func runScript(i *interp.Interpreter, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read '%s': %v\n", path, err)
		os.Exit(1)
	}
	runAndReport(i, string(source)+"\n")
}

func runAndReport(i *interp.Interpreter, source string) {
	if err := i.Run(source); err != nil {
		fmt.Fprintln(os.Stderr, errors.FormatWithContext(err))
		os.Exit(1)
	}
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	w, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return w
}

func printVersion() {
	fmt.Printf("forthic version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: forthic [options] [script]

Options:
  -c <code>          Run the given Forthic code and exit.
  -tz <zone>         IANA timezone for datetime literals. Default is UTC.
  -config <path>     Load settings from a TOML file (flags win).
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is the Forthic stack language interpreter. With no script and no -c it
starts a REPL.

Examples:
  forthic -c '[ 1 2 3 ] REVERSE'   Evaluate one expression
  forthic report.forthic           Execute the provided Forthic file
  forthic -tz America/New_York     Start a REPL in the New York zone

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
