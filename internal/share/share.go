// Package share hands image references to a share target: the system
// clipboard, a local directory or an S3-compatible bucket.
package share

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/media"
)

// ErrCancelled is returned when there was nothing to share.
var ErrCancelled = errors.New("share cancelled")

// Sharer delivers refs to a target.
type Sharer interface {
	Share(ctx context.Context, refs []string) error
}

// Target names a share target.
type Target string

const (
	TargetClipboard Target = "clipboard"
	TargetDir       Target = "dir"
	TargetS3        Target = "s3"
)

// Config selects and configures the share target.
type Config struct {
	Target Target
	// Dir is the destination root for TargetDir.
	Dir string
	S3  S3Config
}

// New builds the configured target. An empty target means clipboard.
func New(ctx context.Context, cfg Config, log *zap.Logger) (Sharer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch Target(strings.ToLower(string(cfg.Target))) {
	case "", TargetClipboard:
		return NewClipboard(log), nil
	case TargetDir:
		return NewDirectory(cfg.Dir, log)
	case TargetS3:
		return NewS3(ctx, cfg.S3, WithLogger(log))
	default:
		return nil, fmt.Errorf("unknown share target %q", cfg.Target)
	}
}

// localFiles resolves refs that point at local files, in order. Other refs
// are skipped.
func localFiles(refs []string, log *zap.Logger) []string {
	var paths []string
	for _, ref := range refs {
		p, ok := media.Path(ref)
		if !ok {
			log.Debug("share skipped non-file ref", zap.String("ref", ref))
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// uniqueNames returns base names for paths, suffixing repeats so every name in
// one batch is distinct.
func uniqueNames(paths []string) []string {
	names := make([]string, len(paths))
	taken := make(map[string]bool, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func batchStamp(now time.Time) string {
	return now.Format("20060102-150405")
}
