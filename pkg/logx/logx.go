package logx

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Level controls which messages are emitted
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	current atomic.Int32
	logger  = log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
)

// SetLevel sets the global minimum log level
func SetLevel(l Level) {
	current.Store(int32(l))
}

func emit(l Level, tag, msg string) {
	if l < Level(current.Load()) {
		return
	}
	logger.Printf("%s %s", tag, msg)
}

func Debugf(format string, args ...any) {
	emit(LevelDebug, "[DEBUG]", fmt.Sprintf(format, args...))
}

func Info(msg string) {
	emit(LevelInfo, "[INFO]", msg)
}

func Infof(format string, args ...any) {
	emit(LevelInfo, "[INFO]", fmt.Sprintf(format, args...))
}

func Warn(msg string) {
	emit(LevelWarn, "[WARN]", msg)
}

func Warnf(format string, args ...any) {
	emit(LevelWarn, "[WARN]", fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	emit(LevelError, "[ERROR]", fmt.Sprintf(format, args...))
}

// Fatalf logs at error level and exits the process
func Fatalf(format string, args ...any) {
	logger.Printf("[FATAL] %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}
