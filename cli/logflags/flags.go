// Package logflags configures a zap logger from command-line flags.
package logflags

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alecthomas/units"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Flags struct {
	Level      zapcore.Level
	Encoding   string
	File       string
	MaxSize    string
	MaxBackups int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Level = zapcore.WarnLevel
	fs.Var(&f.Level, "log.level", "logging level [debug,info,warn,error]")
	fs.StringVar(&f.Encoding, "log.encoding", "console", "logging encoding [console,json]")
	fs.StringVar(&f.File, "log.file", "", "write logs to this file instead of stderr")
	fs.StringVar(&f.MaxSize, "log.maxsize", "100MiB", "size at which the log file is rotated")
	fs.IntVar(&f.MaxBackups, "log.maxbackups", 3, "number of rotated log files to keep")
}

// Open builds the logger.  The returned function flushes the logger and
// closes the log file, if any.
func (f *Flags) Open() (*zap.Logger, func(), error) {
	var enc zapcore.Encoder
	switch f.Encoding {
	case "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(cfg)
	case "json":
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, nil, fmt.Errorf("unknown log encoding: %s", f.Encoding)
	}
	ws := zapcore.Lock(os.Stderr)
	closer := func() {}
	if f.File != "" {
		size, err := units.ParseBase2Bytes(f.MaxSize)
		if err != nil {
			return nil, nil, fmt.Errorf("-log.maxsize: %w", err)
		}
		if size < units.MiB {
			return nil, nil, errors.New("-log.maxsize must be at least 1MiB")
		}
		lj := &lumberjack.Logger{
			Filename:   f.File,
			MaxSize:    int(size / units.MiB),
			MaxBackups: f.MaxBackups,
		}
		ws = zapcore.AddSync(lj)
		closer = func() { lj.Close() }
	}
	logger := zap.New(zapcore.NewCore(enc, ws, f.Level))
	return logger, func() {
		logger.Sync()
		closer()
	}, nil
}
