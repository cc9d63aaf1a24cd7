package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"faq-bot/models"
)

// Trainer owns the two append-only streams the bot emits: training records
// (classification outcomes and negative feedback) and the no-context audit
// log (questions the knowledge base could not cover). Both are JSONL, rotated
// by size. Nothing here ever fails a request; write errors are logged and
// dropped.
type Trainer struct {
	mu        sync.Mutex
	training  io.WriteCloser
	noContext io.WriteCloser
	now       func() time.Time
}

func NewTrainer(logDir string) *Trainer {
	return &Trainer{
		training:  newRotatingLog(filepath.Join(logDir, "training_data.jsonl")),
		noContext: newRotatingLog(filepath.Join(logDir, "no_context_log.jsonl")),
		now:       time.Now,
	}
}

func newRotatingLog(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
	}
}

// Record appends a training record.
func (t *Trainer) Record(rec models.TrainingRecord) {
	rec.Timestamp = t.now().UTC()
	t.writeLine(t.training, rec)
}

// LogNoContext appends a question the bot had no context for, together with
// whatever answer (if any) was discarded.
func (t *Trainer) LogNoContext(question, answer string) {
	t.writeLine(t.noContext, models.NoContextRecord{
		Question:  question,
		Answer:    answer,
		Timestamp: t.now().UTC(),
	})
}

func (t *Trainer) writeLine(w io.Writer, record any) {
	data, err := json.Marshal(record)
	if err != nil {
		slog.Error("Failed to encode log record", "error", err)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := w.Write(append(data, '\n')); err != nil {
		slog.Error("Failed to write log record", "error", err)
	}
}

// Close flushes and closes both streams.
func (t *Trainer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.training.Close()
	t.noContext.Close()
}
