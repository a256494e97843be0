package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type plugin = zapcore.Core

func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

func NewStderrPlugin(enabler zapcore.LevelEnabler) plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (plugin, io.Closer) {
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New logs at level to stdout and, when filePath is set, to a rotating file as
// well. The returned Closer releases the file.
func New(level, filePath string, options ...zap.Option) (*zap.Logger, io.Closer, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	plugins := []zapcore.Core{NewStdoutPlugin(lvl)}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		var p plugin
		p, closer = NewFilePlugin(filePath, lvl)
		plugins = append(plugins, p)
	}
	return NewLogger(zapcore.NewTee(plugins...), options...), closer, nil
}
