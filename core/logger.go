package core

// Logger is any service that can log messages at the usual levels.
// Extra args may carry errors, key/value maps or a student.Student whose
// identity the implementation may attach to the report.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
