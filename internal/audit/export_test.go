package audit

// NewLogger exposes the logger constructor so tests can capture file output.
var NewLogger = newLogger
