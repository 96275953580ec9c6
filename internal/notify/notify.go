package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Level is the severity of a user-visible notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelDanger  Level = "danger"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

func (l Level) String() string { return string(l) }

func (l Level) Icon() string {
	switch l {
	case LevelSuccess:
		return "✓"
	case LevelDanger:
		return "✗"
	case LevelWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Notifier surfaces the outcome of an operation to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Progress describes the record a batch is currently working on. Index is 1-based.
type Progress struct {
	Index int
	Total int
	Name  string
}

func (p Progress) String() string {
	return fmt.Sprintf("Processing %d/%d: %s", p.Index, p.Total, p.Name)
}

// StatusSink shows transient progress while an operation is in flight.
type StatusSink interface {
	ShowStatus(message string)
	HideStatus()
}

var (
	_ Notifier   = (*ZapNotifier)(nil)
	_ StatusSink = (*ZapNotifier)(nil)
	_ Notifier   = (*ConsoleNotifier)(nil)
	_ StatusSink = (*ConsoleNotifier)(nil)
)

// ZapNotifier reports notifications and status through a logger.
type ZapNotifier struct {
	logger *zap.Logger
}

func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapNotifier{logger: logger}
}

func (n *ZapNotifier) Notify(level Level, message string) {
	fields := []zap.Field{zap.String("notification", level.String())}
	switch level {
	case LevelDanger:
		n.logger.Error(message, fields...)
	case LevelWarning:
		n.logger.Warn(message, fields...)
	default:
		n.logger.Info(message, fields...)
	}
}

func (n *ZapNotifier) ShowStatus(message string) {
	n.logger.Debug(message, zap.String("notification", "status"))
}

func (n *ZapNotifier) HideStatus() {}

// ConsoleNotifier prints notifications as "<icon> message" lines.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = io.Discard
	}
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.out, "%s %s\n", level.Icon(), strings.TrimSpace(message))
}

func (n *ConsoleNotifier) ShowStatus(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.out, "… %s\n", strings.TrimSpace(message))
}

func (n *ConsoleNotifier) HideStatus() {}

type nop struct{}

func (nop) Notify(Level, string) {}
func (nop) ShowStatus(string)    {}
func (nop) HideStatus()          {}

// Nop returns a sink that discards notifications and status updates.
func Nop() interface {
	Notifier
	StatusSink
} {
	return nop{}
}
