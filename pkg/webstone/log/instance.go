package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	logrus "github.com/sirupsen/logrus"
)

// pipelineLogger wraps a logrus logger behind the Logger interface so every
// pipeline stage logs through the same field-carrying instance.
type pipelineLogger struct {
	logrus.FieldLogger
}

// stackTracer matches pkg/errors and emperror errors carrying a stack.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (pl *pipelineLogger) GetTracingLogger() TracingLogger {
	return &tracingLogger{logger: pl}
}

func (pl *pipelineLogger) GetCorsLogger() CorsLogger {
	return &corsLogger{logger: pl}
}

func (pl *pipelineLogger) Configure(level string, format string, filePath string) error {
	lvl, err := logrus.ParseLevel(level)
	// Check error
	if err != nil {
		return err
	}

	// Configuration only applies to the root logrus logger, field loggers
	// derived from it inherit the settings
	root := pl.FieldLogger.(*logrus.Logger)
	root.SetLevel(lvl)

	switch format {
	case "json":
		root.SetFormatter(&logrus.JSONFormatter{})
	default:
		root.SetFormatter(&logrus.TextFormatter{})
	}

	if filePath != "" {
		// Ensure the log directory exists
		err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm)
		if err != nil {
			return err
		}

		f, err2 := os.OpenFile(filePath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o666)
		if err2 != nil {
			return err2
		}

		root.SetOutput(f)
	}

	return nil
}

func (pl *pipelineLogger) WithField(key string, value interface{}) Logger {
	return &pipelineLogger{
		FieldLogger: pl.FieldLogger.WithField(key, value),
	}
}

func (pl *pipelineLogger) WithFields(fields map[string]interface{}) Logger {
	return &pipelineLogger{
		FieldLogger: pl.FieldLogger.WithFields(logrus.Fields(fields)),
	}
}

func (pl *pipelineLogger) WithError(err error) Logger {
	fieldL := pl.FieldLogger.WithError(err)

	// Attach the stack trace when the error or its cause carries one.
	// nolint: errorlint // Only the first level is interesting here
	if st, ok := err.(stackTracer); ok {
		fieldL = fieldL.WithField("stack", flattenStack(st))
	} else if st, ok := errors.Cause(err).(stackTracer); ok { // nolint: errorlint
		fieldL = fieldL.WithField("stack", flattenStack(st))
	}

	return &pipelineLogger{
		FieldLogger: fieldL,
	}
}

func (pl *pipelineLogger) Error(args ...interface{}) {
	// Errors carrying a stack get it attached as a field first
	if err, ok := args[0].(error); ok {
		res := pl.WithError(err)
		pl.FieldLogger = res.(*pipelineLogger).FieldLogger
	}

	pl.FieldLogger.Error(args...)
}

// flattenStack renders a stack trace as a single comma-separated field value
// so structured outputs keep one line per log event.
func flattenStack(st stackTracer) string {
	valued := fmt.Sprintf("%+v", st.StackTrace())
	valued = strings.ReplaceAll(valued, "\t", "")

	frames := strings.Split(valued, "\n")
	// Drop the leading empty line of the %+v rendering
	frames = frames[1:]

	return strings.Join(frames, ",")
}
