package media

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/fsutil"
)

// Library picks existing image files from the local filesystem.
type Library struct {
	// Root resolves relative paths. Empty means the working directory.
	Root string
	Log  *zap.Logger
}

// Pick expands each token of req.Query. A directory contributes its image
// files, a glob its matches and a file itself. Non-image files are skipped.
func (l *Library) Pick(ctx context.Context, req Request) ([]string, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	var refs []string
	seen := make(map[string]bool)
	for _, token := range l.tokens(req.Query) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths, err := l.expand(token)
		if err != nil {
			log.Debug("library token skipped", zap.String("token", token), zap.Error(err))
			continue
		}
		for _, p := range paths {
			if !IsImage(p) || seen[p] {
				continue
			}
			seen[p] = true
			refs = append(refs, URI(p))
		}
	}

	if len(refs) == 0 {
		return nil, ErrCancelled
	}
	if !req.Multiple {
		refs = refs[:1]
	}
	log.Debug("library picked", zap.Int("count", len(refs)))
	return refs, nil
}

// tokens splits the query on whitespace unless the whole query names an
// existing path, which keeps paths with spaces usable.
func (l *Library) tokens(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if _, err := os.Stat(l.resolve(query)); err == nil {
		return []string{query}
	}
	return strings.Fields(query)
}

func (l *Library) resolve(token string) string {
	token = strings.TrimPrefix(token, "file://")
	if !strings.HasPrefix(token, "~") && !filepath.IsAbs(token) && l.Root != "" {
		token = filepath.Join(fsutil.MustExpand(l.Root), token)
	}
	return fsutil.MustExpand(token)
}

func (l *Library) expand(token string) ([]string, error) {
	path := l.resolve(token)
	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
				files = append(files, m)
			}
		}
		return files, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}
