package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/fsutil"
)

// Directory copies shared files into a fresh timestamped folder under root.
type Directory struct {
	root string
	now  func() time.Time
	log  *zap.Logger
}

// NewDirectory returns a directory target rooted at root.
func NewDirectory(root string, log *zap.Logger) (*Directory, error) {
	if log == nil {
		log = zap.NewNop()
	}
	expanded, err := fsutil.ExpandPath(root)
	if err != nil {
		return nil, fmt.Errorf("share dir: %w", err)
	}
	return &Directory{root: expanded, now: time.Now, log: log}, nil
}

// Root returns the destination root.
func (d *Directory) Root() string { return d.root }

func (d *Directory) Share(ctx context.Context, refs []string) error {
	if len(refs) == 0 {
		return ErrCancelled
	}
	files := localFiles(refs, d.log)
	if len(files) == 0 {
		return errors.New("no local files to share")
	}

	dest, err := d.batchDir()
	if err != nil {
		return err
	}
	for i, name := range uniqueNames(files) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyFile(files[i], filepath.Join(dest, name)); err != nil {
			return err
		}
	}
	d.log.Info("copied images", zap.String("dir", dest), zap.Int("count", len(files)))
	return nil
}

func (d *Directory) batchDir() (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("create share dir: %w", err)
	}
	stamp := batchStamp(d.now())
	dest := filepath.Join(d.root, stamp)
	for n := 2; ; n++ {
		err := os.Mkdir(dest, 0o755)
		if err == nil {
			return dest, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create batch dir: %w", err)
		}
		dest = filepath.Join(d.root, fmt.Sprintf("%s-%d", stamp, n))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
