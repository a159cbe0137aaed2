package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cogsuite-go/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotation mirrors config.LoggingConfig so the logger can be built before
// the configuration file has been read.
type rotation struct {
	dir        string
	maxSize    int
	maxBackups int
	maxAge     int
	compress   bool
}

func rotationSettings(projectRoot string) rotation {
	r := rotation{
		dir:        filepath.Join(projectRoot, "logs"),
		maxSize:    10,
		maxBackups: 3,
		maxAge:     7,
		compress:   true,
	}
	if config.Conf == nil {
		return r
	}
	lc := config.Conf.Logging
	if lc.Directory != "" {
		r.dir = filepath.Join(projectRoot, lc.Directory)
	}
	if lc.MaxSize > 0 {
		r.maxSize = lc.MaxSize
	}
	if lc.MaxBackups > 0 {
		r.maxBackups = lc.MaxBackups
	}
	if lc.MaxAge > 0 {
		r.maxAge = lc.MaxAge
	}
	r.compress = lc.Compress
	return r
}

// Init initializes and returns a new zap logger. Each level gets its own
// rotating JSON file; everything also goes to a human-readable console core.
func Init(projectRoot string) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	rot := rotationSettings(projectRoot)

	levels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	}

	// One core per level, each writing ONLY that level to its own file, plus
	// the console core. Every entry visits all cores and each LevelEnabler
	// decides whether to write it.
	cores := make([]zapcore.Core, 0, len(levels)+1)
	for _, level := range levels {
		fileCore, err := newFileCore(rot, level, encoderConfig)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}
	cores = append(cores, newConsoleCore())

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// newFileCore creates a core that writes a specific log level to a rotating file.
func newFileCore(rot rotation, level zapcore.Level, encoderConfig zapcore.EncoderConfig) (zapcore.Core, error) {
	if err := os.MkdirAll(rot.dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	// One file per level per day, named like '2025-08-25-info.log'
	fileName := filepath.Join(rot.dir, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    rot.maxSize, // megabytes
		MaxBackups: rot.maxBackups,
		MaxAge:     rot.maxAge, // days
		Compress:   rot.compress,
	})

	// This LevelEnablerFunc is what splits the logs: the core only handles
	// entries of its exact level.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		levelEnabler,
	), nil
}

// newConsoleCore creates a core that writes to the console.
func newConsoleCore() zapcore.Core {
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.DebugLevel
	})

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stdout),
		levelEnabler,
	)
}
