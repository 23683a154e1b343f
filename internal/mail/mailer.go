// Package mail is the out-of-band delivery sink for confirmation codes.
// Delivery is fire-and-forget from the caller's perspective: a failed send
// is logged, never surfaced to the client.
package mail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(msg Message) error
}

// FileMailer writes each message to a file under a local outbox directory,
// one file per message. Good enough for development and tests.
type FileMailer struct {
	From   string
	Dir    string
	Logger *slog.Logger
}

func NewFileMailer(from, dir string, logger *slog.Logger) *FileMailer {
	return &FileMailer{From: from, Dir: dir, Logger: logger}
}

func (m *FileMailer) Send(msg Message) error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("create outbox dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s.eml", time.Now().UnixNano(), msg.To)
	content := fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\n\n%s\n", m.From, msg.To, msg.Subject, msg.Body)

	path := filepath.Join(m.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write mail file: %w", err)
	}

	m.Logger.Debug("mail written to outbox", "to", msg.To, "path", path)
	return nil
}

// LogMailer only logs the message. Used when no outbox is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(msg Message) error {
	m.Logger.Info("outgoing mail", "to", msg.To, "subject", msg.Subject)
	return nil
}
