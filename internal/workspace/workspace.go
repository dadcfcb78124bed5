package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/runwasm/internal/logfields"
)

// ErrNoManifest indicates the locate command printed no manifest path.
var ErrNoManifest = errors.New("no workspace manifest found")

// Locate returns the workspace root for dir by running
// `<cargo> locate-project --workspace --message-format plain` there.
func Locate(ctx context.Context, cargo, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, cargo, "locate-project", "--workspace", "--message-format", "plain")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("locate workspace: %w: %s", err, msg)
		}
		return "", fmt.Errorf("locate workspace: %w", err)
	}

	manifest := strings.TrimSpace(string(out))
	if manifest == "" {
		return "", ErrNoManifest
	}
	root := filepath.Dir(manifest)
	slog.Debug("Located workspace", logfields.Path(root))
	return root, nil
}

// EnsureDir creates dir and its parents if missing. Existing contents are left in place
// so each build overwrites, but never cleans, its previous output.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	slog.Debug("Using output directory", logfields.Path(dir))
	return nil
}
