package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConsoleHook mirrors every entry to the terminal. Warnings and errors go to
// errOut so they survive a redirected stdout.
type ConsoleHook struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func NewConsoleHook() *ConsoleHook {
	return NewConsoleHookWithWriters(os.Stdout, os.Stderr)
}

func NewConsoleHookWithWriters(out, errOut io.Writer) *ConsoleHook {
	return &ConsoleHook{out: out, errOut: errOut}
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	w := h.out
	if entry.Level <= logrus.WarnLevel {
		w = h.errOut
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = w.Write(line)
	return err
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
