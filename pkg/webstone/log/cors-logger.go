package log

// corsLogger adapts the pipeline logger to the printf-style interface the
// CORS middleware expects, demoting its output to debug level.
type corsLogger struct {
	logger Logger
}

func (c *corsLogger) Printf(format string, args ...interface{}) {
	c.logger.Debugf(format, args...)
}
