package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

type Operation string

const (
	OpAdd    Operation = "add"
	OpRemove Operation = "remove"
	OpUpdate Operation = "update"
)

const (
	MsgOutOfStock   = "Quantidade solicitada fora de estoque"
	MsgAddFailed    = "Erro na adição do produto"
	MsgRemoveFailed = "Erro na remoção do produto"
	MsgUpdateFailed = "Erro na alteração de quantidade do produto"
)

// MessageFor returns the toast text for a failed operation, or "" when err is nil.
func MessageFor(op Operation, err error) string {
	if err == nil {
		return ""
	}

	switch op {
	case OpAdd:
		if errors.Is(err, service.ErrOutOfStock) {
			return MsgOutOfStock
		}
		return MsgAddFailed
	case OpUpdate:
		if errors.Is(err, service.ErrOutOfStock) {
			return MsgOutOfStock
		}
		return MsgUpdateFailed
	default:
		return MsgRemoveFailed
	}
}

// LogNotifier emits toasts as log entries for whatever UI tails them.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log.WithField("component", "toast")}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) {
	n.log.WithField("message", message).Warn("toast")
}

// Recorder keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Notify(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
