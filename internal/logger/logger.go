package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxBufferSize = 1000

var (
	instance   *Logger
	instanceMu sync.Mutex
	once       sync.Once
)

type LogEntry struct {
	Timestamp time.Time
	Message   string
}

type Logger struct {
	file    *os.File
	logger  *log.Logger
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
}

func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		instanceMu.Lock()
		instance = &Logger{
			file:    file,
			logger:  log.New(file, "", log.LstdFlags),
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: true,
		}
		instanceMu.Unlock()
	})

	EnsureInit()
	return initErr
}

// EnsureInit installs a buffer-only logger when Init was never called or failed.
func EnsureInit() {
	current()
}

func current() *Logger {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &Logger{
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: false,
		}
	}
	return instance
}

func Close() error {
	l := current()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.enabled = false
		return l.file.Close()
	}
	return nil
}

func GetLogs() []LogEntry {
	l := current()
	l.mu.Lock()
	defer l.mu.Unlock()

	logs := make([]LogEntry, len(l.buffer))
	copy(logs, l.buffer)
	return logs
}

func write(message string) {
	l := current()
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buffer) >= maxBufferSize {
		l.buffer = l.buffer[1:]
	}
	l.buffer = append(l.buffer, LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	})

	if l.enabled && l.logger != nil {
		l.logger.Println(message)
	}
}

func LogFileOpen(path string) {
	write(fmt.Sprintf("[FILE_OPEN] %s", path))
}

func LogFileWrite(path string) {
	write(fmt.Sprintf("[FILE_WRITE] %s", path))
}

// LogConnect records a connection attempt outcome for an organization URL.
// The access token is never logged.
func LogConnect(orgURL string, err error) {
	if err != nil {
		write(fmt.Sprintf("[CONNECT] %s - failed: %v", orgURL, err))
		return
	}
	write(fmt.Sprintf("[CONNECT] %s - ok", orgURL))
}

func LogFetch(id int, outcome string) {
	write(fmt.Sprintf("[FETCH] #%d %s", id, outcome))
}

func LogError(operation, subject string, err error) {
	write(fmt.Sprintf("[ERROR] %s: %s - %v", operation, subject, err))
}

func Log(message string, args ...interface{}) {
	write(fmt.Sprintf("[INFO] "+message, args...))
}
