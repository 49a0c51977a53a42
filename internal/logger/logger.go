package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/habitflow/habitflow/internal/constants"
)

// Rotation limits of habitflow.log
const (
	maxSizeMB  = 5
	maxBackups = 5
	maxAgeDays = 30
)

var (
	// Logger is nil until Init. The helpers are no-ops in that state so the
	// engine, storage and coach packages can log unconditionally.
	Logger *log.Logger

	file *lumberjack.Logger
)

type Config struct {
	// Dir holds the logs/ directory, normally the directory of config.yaml
	Dir string
	// Verbose lowers the level to debug and mirrors records to Mirror
	Verbose bool
	// Mirror defaults to stderr
	Mirror io.Writer
}

// Init opens logs/habitflow.log under cfg.Dir. Calling it again replaces the
// previous file.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	Close()

	file = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var w io.Writer = file
	level := log.InfoLevel
	if cfg.Verbose {
		mirror := cfg.Mirror
		if mirror == nil {
			mirror = os.Stderr
		}
		w = io.MultiWriter(mirror, file)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Verbose,
		Prefix:          constants.AppName,
	})
	return nil
}

// Path is the active log file, empty before Init
func Path() string {
	if file == nil {
		return ""
	}
	return file.Filename
}

// Close releases the log file. Later records are dropped.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	Logger = nil
	return err
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
