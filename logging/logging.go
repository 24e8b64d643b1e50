package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

var (
	debugLogger *log.Logger
	logFile     *os.File
	mu          sync.Mutex
	isSetup     bool
	debugMode   bool
)

// SetupLogger initializes the debug logger with the specified log file.
// Once set up, every level including debug is written to the file.
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	debugLogger = log.New(logFile, "", log.LstdFlags)
	debugLogger.Printf("--- ImageReader Debug Log Started at %s ---\n", time.Now().Format(time.RFC3339))

	isSetup = true
	debugMode = true
	return nil
}

// SetOutput routes all log levels to w instead of a log file.
// Passing nil restores the default behaviour.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		debugLogger = nil
		debugMode = false
		return
	}
	debugLogger = log.New(w, "", log.LstdFlags)
	debugMode = true
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		debugLogger.Printf("--- ImageReader Debug Log Closed at %s ---\n", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		debugLogger = nil
		isSetup = false
		debugMode = false
	}
}

// output writes to the configured logger, or to the standard logger when
// nothing has been configured.
func output(prefix, format string, args ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(prefix+format, args...)
		return
	}
	log.Printf(prefix+format, args...)
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	output("INFO: ", format, args...)
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if debugMode && debugLogger != nil {
		debugLogger.Printf(format, args...)
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	output("ERROR: ", format, args...)
}

// LogWarning logs a warning message. Warnings are never dropped: without a
// log file they go to the standard logger.
func LogWarning(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	output("WARNING: ", format, args...)
}

// LogImageRead logs where an image was served from ("disk" or "cache").
func LogImageRead(path, source string) {
	mu.Lock()
	defer mu.Unlock()

	if debugMode && debugLogger != nil {
		debugLogger.Printf("READ [%s]: %s", source, path)
	}
}
