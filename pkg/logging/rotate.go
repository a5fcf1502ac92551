package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingFile returns an io.Writer that rotates path once it crosses
// maxMegabytes, keeping maxBackups old copies. Intended for long batch
// release runs invoked via `augforgectl build --log-file`.
func RotatingFile(path string, maxMegabytes, maxBackups int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxMegabytes,
		MaxBackups: maxBackups,
		MaxAge:     28,
		Compress:   true,
	}
}
