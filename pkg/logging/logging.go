package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a logger built by New.
type Options struct {
	// Verbosity maps -v counts to levels: 0 warn, 1 info, 2 debug, 3+ trace.
	Verbosity int

	// Console receives human readable output. Nil means os.Stderr.
	Console io.Writer

	// LogFile overrides the log file location. Empty uses LogFilePath().
	LogFile string

	// NoFile disables the log file entirely.
	NoFile bool
}

// Logger bundles the constructed logger with the resources it holds open.
type Logger struct {
	zerolog.Logger

	file     *os.File
	filePath string
}

// New builds a logger writing to the console and to the state log file.
// A log file that cannot be created is reported once and otherwise ignored.
func New(opts Options) *Logger {
	level := LevelFor(opts.Verbosity)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
	}}

	l := &Logger{}
	var fileErr error
	if !opts.NoFile {
		l.filePath = opts.LogFile
		if l.filePath == "" {
			l.filePath = LogFilePath()
		}
		l.file, fileErr = setupLogFile(l.filePath)
		if fileErr == nil {
			writers = append(writers, l.file)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).Level(level).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	l.Logger = ctx.Logger()

	if fileErr != nil {
		l.Warn().Err(fileErr).Str("path", l.filePath).Msg("Failed to create log file, logging to console only")
	}

	l.Debug().Int("verbosity", opts.Verbosity).Str("logFile", l.filePath).Msg("Logger initialized")
	return l
}

// FileOnly returns a logger that writes to the log file only, at the same
// level. It is used while an animated view owns the terminal. When no file
// is open it returns a no-op logger.
func (l *Logger) FileOnly() zerolog.Logger {
	if l == nil || l.file == nil {
		return Nop()
	}
	return zerolog.New(l.file).Level(l.GetLevel()).With().Timestamp().Logger()
}

// Writer returns the open log file, or io.Discard when there is none.
// Command output is sent here while an animated view owns the terminal.
func (l *Logger) Writer() io.Writer {
	if l == nil || l.file == nil {
		return io.Discard
	}
	return l.file
}

// FilePath returns the path of the log file, if any.
func (l *Logger) FilePath() string {
	return l.filePath
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// LevelFor converts a verbosity count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Component returns a child logger tagged with the given component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// LogFilePath returns the path to the log file.
// It respects XDG_STATE_HOME if set, otherwise uses ~/.local/state/hostprep/
func LogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "hostprep.log"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "hostprep", "hostprep.log")
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}

// LogCommand logs a command execution with its arguments
func LogCommand(logger zerolog.Logger, cmd string, args []string) {
	logger.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
