package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/fsutil"
)

// OutPlaceholder is replaced by the capture file path in the camera command.
const OutPlaceholder = "{out}"

// Camera captures a photo by running an external command such as
// "fswebcam -r 1280x720 {out}". When the command has no placeholder the path
// is appended as the last argument.
type Camera struct {
	Command string
	// Dir receives captured photos.
	Dir string
	Log *zap.Logger

	now func() time.Time
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Pick runs the capture command and returns the new photo.
func (c *Camera) Pick(ctx context.Context, _ Request) ([]string, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return nil, ErrDenied
	}

	dir, err := fsutil.ExpandPath(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("camera dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create camera dir: %w", err)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	out := filepath.Join(dir, "shelf-"+now().Format("20060102-150405.000")+".jpg")
	args := captureArgs(fields[1:], out)

	run := runCommand
	if c.run != nil {
		run = c.run
	}
	output, err := run(ctx, fields[0], args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("camera command failed",
			zap.String("command", fields[0]),
			zap.String("output", strings.TrimSpace(string(output))),
			zap.Error(err))
		return nil, fmt.Errorf("camera command: %w", err)
	}

	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		log.Info("camera produced no photo", zap.String("path", out))
		return nil, ErrCancelled
	}
	log.Info("photo captured", zap.String("path", out), zap.Int64("bytes", info.Size()))
	return []string{URI(out)}, nil
}

func captureArgs(args []string, out string) []string {
	replaced := false
	result := make([]string, len(args))
	for i, a := range args {
		if strings.Contains(a, OutPlaceholder) {
			a = strings.ReplaceAll(a, OutPlaceholder, out)
			replaced = true
		}
		result[i] = a
	}
	if !replaced {
		result = append(result, out)
	}
	return result
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// CommandPermission grants the camera when a capture command is configured
// and its binary can be found on PATH.
type CommandPermission struct {
	Command string
	Log     *zap.Logger

	lookPath func(string) (string, error)
}

// Camera implements Permission. A missing binary is a denial, not an error.
func (p *CommandPermission) Camera(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return false, nil
	}
	look := exec.LookPath
	if p.lookPath != nil {
		look = p.lookPath
	}
	if _, err := look(fields[0]); err != nil {
		if p.Log != nil {
			p.Log.Info("camera command not found", zap.String("command", fields[0]), zap.Error(err))
		}
		return false, nil
	}
	return true, nil
}
