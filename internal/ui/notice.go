package ui

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/media"
)

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeError
)

// notice is the single line of feedback under the content area. Every
// operation result ends here; nothing is reported through a panic or a modal.
type notice struct {
	level noticeLevel
	text  string
}

func (m *Model) setNotice(level noticeLevel, text string) {
	m.notice = notice{level: level, text: text}
}

func (m *Model) noticeShare(res bulk.ShareResult) {
	switch res.Outcome {
	case bulk.Shared:
		m.setNotice(noticeSuccess, fmt.Sprintf("Shared %s", plural(res.Count, "image")))
	case bulk.Empty:
		m.setNotice(noticeInfo, "Nothing to share")
	case bulk.Cancelled:
		m.setNotice(noticeInfo, "Share cancelled")
	default:
		m.setNotice(noticeError, "Share failed: "+errText(res.Err))
	}
}

// noticePick reports a pick that produced no images.
func (m *Model) noticePick(kind media.Kind, err error) {
	switch {
	case errors.Is(err, media.ErrCancelled):
		m.setNotice(noticeInfo, "No images picked")
		m.log.Info("pick cancelled", zap.Stringer("source", kind))
	case errors.Is(err, media.ErrDenied):
		m.setNotice(noticeWarning, fmt.Sprintf("%s unavailable", titleCase(kind.String())))
		m.log.Info("pick denied", zap.Stringer("source", kind), zap.Error(err))
	default:
		m.setNotice(noticeError, "Pick failed: "+errText(err))
		m.log.Warn("pick failed", zap.Stringer("source", kind), zap.Error(err))
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
