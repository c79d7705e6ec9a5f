package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var logger = newLogger(os.Stdout, "mahjong")

func newLogger(w io.Writer, prefix string) *log.Logger {
	l := log.New(w)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetLevel(log.InfoLevel)
	return l
}

// InitLog 按应用名与级别重建全局日志；模拟器与回放在启动时调用一次
func InitLog(appName string, logLevel string) {
	// 使用 os.Stdout，避免 IDE 控制台把所有日志染成红色
	logger = newLogger(os.Stdout, appName)
	logger.SetReportCaller(true)
	SetLevel(logLevel)
}

// SetOutput 重定向输出，测试里用 io.Discard 静音
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func SetLevel(logLevel string) {
	switch strings.ToLower(logLevel) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// With 带固定字段的子日志，例如 round=E1
func With(keyvals ...any) *log.Logger {
	return logger.With(keyvals...)
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatal(format)
		return
	}
	logger.Fatalf(format, args...)
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Info(format)
		return
	}
	logger.Infof(format, args...)
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warn(format)
		return
	}
	logger.Warnf(format, args...)
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Error(format)
		return
	}
	logger.Errorf(format, args...)
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debug(format)
		return
	}
	logger.Debugf(format, args...)
}
