// pkg/utils/tracelog.go

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// TraceLog is the append-only log of one inspection run. Every executed
// command, its output and every diagnostic end up here.
type TraceLog struct {
	*logrus.Logger

	name string
	path string
	file *os.File
}

// NewTraceLog creates logs/<name> inside dir. When echo is set the entries
// are also written to stderr.
func NewTraceLog(dir string, echo bool) (*TraceLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("vsdscsminspect-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = file
	if echo {
		out = io.MultiWriter(file, os.Stderr)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &TraceLog{Logger: logger, name: name, path: path, file: file}, nil
}

// Name returns the log file name referenced by the console summary
func (t *TraceLog) Name() string {
	return t.name
}

// Path returns the full path of the log file
func (t *TraceLog) Path() string {
	return t.path
}

// Close flushes and closes the log file. It is called once at run end.
func (t *TraceLog) Close() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	t.Logger.SetOutput(io.Discard)
	return err
}
