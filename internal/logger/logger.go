// Package logger provides verbose and audit logging for askwork.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users understand the answer pipeline.
// Audit entries are always written, as JSON lines, to the audit output.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.RWMutex
	verbose     bool
	output      io.Writer = os.Stderr
	auditOutput io.Writer = os.Stderr
	level                 = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	sugar       *zap.SugaredLogger
	auditor     *zap.Logger
)

func init() {
	rebuild()
}

// rebuild recreates the zap cores. Caller must hold mu or be in init.
func rebuild() {
	consoleCfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeLevel:      bracketLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	console := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(output), level)
	sugar = zap.New(console).Sugar()

	auditCfg := zap.NewProductionEncoderConfig()
	auditCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	audit := zapcore.NewCore(zapcore.NewJSONEncoder(auditCfg), zapcore.AddSync(auditOutput), zapcore.InfoLevel)
	auditor = zap.New(audit).Named("audit")
}

// bracketLevelEncoder renders levels as "[DEBUG]", "[WARN]" and so on.
func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.ErrorLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetAuditOutput sets the writer audit entries go to.
// Defaults to os.Stderr.
func SetAuditOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	auditOutput = w
	rebuild()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugf("=== %s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infof(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Warnf(format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Errorf(format, args...)
}

// Audit records which documents an operation exposed to a requester.
// Only identifiers and sizes are logged, never document content.
func Audit(requesterID, operation string, documentIDs []string, queryLength int) {
	mu.RLock()
	defer mu.RUnlock()
	if documentIDs == nil {
		documentIDs = []string{}
	}
	auditor.Info("access",
		zap.String("requester_id", requesterID),
		zap.String("operation", operation),
		zap.Strings("document_ids", documentIDs),
		zap.Int("query_length", queryLength),
	)
}
