package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// FileSink appends JSON-lines records to daily files under a base
// directory: activities_YYYY-MM-DD.log and errors_YYYY-MM-DD.log.  Sink
// failures are reported on the process log and otherwise ignored; logging
// must never fail an identity operation.
type FileSink struct {
	dir string
	mu  sync.Mutex
}

// NewFileSink returns a sink rooted at dir.  The directory is created on
// first write, not here, so a missing directory is not a startup failure.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Record implements ActivityLog.
func (s *FileSink) Record(ctx context.Context, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.IP == "" || e.UserAgent == "" {
		info := ClientInfoFrom(ctx)
		if e.IP == "" {
			e.IP = info.IP
		}
		if e.UserAgent == "" {
			e.UserAgent = info.UserAgent
		}
	}
	s.append("activities", e.Timestamp, e)
}

func (s *FileSink) append(kind string, ts time.Time, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("audit: marshal %s entry failed: %v", kind, err)
		return
	}
	name := fmt.Sprintf("%s_%s.log", kind, ts.Format("2006-01-02"))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("audit: mkdir %s failed: %v", s.dir, err)
		return
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("audit: open %s failed: %v", name, err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(body, '\n')); err != nil {
		log.Printf("audit: write %s failed: %v", name, err)
	}
}

// ErrorFileSink writes error records next to the activity files.
type ErrorFileSink struct {
	sink *FileSink
}

// NewErrorFileSink returns an error sink sharing the activity directory.
func NewErrorFileSink(dir string) *ErrorFileSink {
	return &ErrorFileSink{sink: NewFileSink(dir)}
}

// Record implements ErrorLog.  The caller's source location is captured
// when the entry does not already carry one.
func (s *ErrorFileSink) Record(e ErrorEntry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Source == "" {
		if _, file, line, ok := runtime.Caller(1); ok {
			e.Source = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}
	s.sink.append("errors", e.Timestamp, e)
}
