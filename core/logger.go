package core

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/jcelliott/lumber"
)

var log = lumber.NewConsoleLogger(lumber.DEBUG)

func init() {
	log.TimeFormat("2006-01-02 15:04:05.000")
	log.Prefix("GuildBot")
}

func SetLogLevel(lvl int) {
	log.Level(lvl)
}

// SetLogLevelName accepts TRACE, DEBUG, INFO, WARN, ERROR or FATAL. Unknown names leave the level untouched.
func SetLogLevelName(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		log.Level(lumber.TRACE)
	case "DEBUG":
		log.Level(lumber.DEBUG)
	case "INFO":
		log.Level(lumber.INFO)
	case "WARN", "WARNING":
		log.Level(lumber.WARN)
	case "ERROR":
		log.Level(lumber.ERROR)
	case "FATAL":
		log.Level(lumber.FATAL)
	default:
		return false
	}
	return true
}

func IsLogInfo() bool {
	return log.IsInfo()
}

func IsLogDebug() bool {
	return log.IsDebug()
}

func LogDebugF(format string, v ...interface{}) {
	if log.IsDebug() {
		emitF(log.Debug, format, v...)
	}
}

func LogInfoF(format string, v ...interface{}) {
	if log.IsInfo() {
		emitF(log.Info, format, v...)
	}
}

func LogWarnF(format string, v ...interface{}) {
	if log.IsWarn() {
		emitF(log.Warn, format, v...)
	}
}

func LogErrorF(format string, v ...interface{}) {
	if log.IsError() {
		emitF(log.Error, format, v...)
	}
}

func LogFatalF(format string, v ...interface{}) {
	emitF(log.Fatal, format, v...)
	os.Exit(2)
}

func LogDebug(v ...interface{}) {
	if log.IsDebug() {
		emit(log.Debug, v...)
	}
}

func LogInfo(v ...interface{}) {
	if log.IsInfo() {
		emit(log.Info, v...)
	}
}

func LogWarn(v ...interface{}) {
	if log.IsWarn() {
		emit(log.Warn, v...)
	}
}

func LogError(v ...interface{}) {
	if log.IsError() {
		emit(log.Error, v...)
	}
}

func LogFatal(v ...interface{}) {
	emit(log.Fatal, v...)
	os.Exit(2)
}

// LogPanicF logs a recovered panic value at error level followed by the goroutine stack.
func LogPanicF(recovered interface{}, format string, v ...interface{}) {
	if log.IsError() {
		emitF(log.Error, "%s: panic: %v\n%s", fmt.Sprintf(format, v...), recovered, debug.Stack())
	}
}

func emitF(logger func(format string, v ...interface{}), format string, v ...interface{}) {
	logger("%s | %s", caller(), fmt.Sprintf(format, v...))
}

func emit(logger func(format string, v ...interface{}), v ...interface{}) {
	logger("%s | %s", caller(), fmt.Sprint(v...))
}

// caller reports the file:line of whoever called the exported Log function.
func caller() string {
	_, fn, line, ok := runtime.Caller(3)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", path.Base(fn), line)
}
