package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Configure 设置全局日志：控制台 + 滚动文件，filename 为空时只输出到控制台
func Configure(level zerolog.Level, filename string) io.Closer {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.DurationFieldUnit = time.Nanosecond
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	writers := []io.Writer{console}

	var file *lumberjack.Logger
	if filename != "" {
		file = &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		writers = append(writers, file)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)

	if file == nil {
		return io.NopCloser(nil)
	}
	return file
}
