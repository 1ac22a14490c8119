package ports

// Logger is the logging interface adapters depend on.
// pkg/logging adapts zap to it.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
}

// Field is a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

func String(key, val string) Field {
	return Field{Key: key, Value: val}
}

func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

func Bool(key string, val bool) Field {
	return Field{Key: key, Value: val}
}

// Err creates an "error" field. The zap adapter logs it as a named error.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
