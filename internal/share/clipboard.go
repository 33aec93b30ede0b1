package share

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Clipboard copies refs to the system clipboard, one per line.
type Clipboard struct {
	write func(string) error
	log   *zap.Logger
}

// NewClipboard returns a clipboard target.
func NewClipboard(log *zap.Logger) *Clipboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Clipboard{write: clipboard.WriteAll, log: log}
}

func (c *Clipboard) Share(ctx context.Context, refs []string) error {
	if len(refs) == 0 {
		return ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(strings.Join(refs, "\n")); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	c.log.Info("copied refs to clipboard", zap.Int("count", len(refs)))
	return nil
}
