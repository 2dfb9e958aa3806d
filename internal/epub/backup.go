package epub

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// BackupOptions controls where the pre-patch copy of an archive is written.
type BackupOptions struct {
	Enabled bool

	// Dir is an alternate root for backups. Empty means next to the original.
	Dir string

	// Base is the directory whose layout is mirrored under Dir.
	Base string

	// Suffix is appended to the file name. Defaults to ".bak".
	Suffix string
}

// BackupPath returns the backup location for original.
//
// Without Dir the backup sits next to the original. With Dir, the path of
// original relative to Base is recreated under Dir; an original outside Base
// keeps only its file name. The suffix is never added twice.
func BackupPath(original string, opts BackupOptions) string {
	suffix := opts.Suffix
	if suffix == "" {
		suffix = epubseries.DefaultBackupSuffix
	}

	withSuffix := func(p string) string {
		if strings.HasSuffix(p, suffix) {
			return p
		}
		return p + suffix
	}

	if opts.Dir == "" {
		return withSuffix(original)
	}

	rel := filepath.Base(original)
	if opts.Base != "" {
		if r, err := relativeTo(opts.Base, original); err == nil {
			rel = r
		}
	}
	return withSuffix(filepath.Join(opts.Dir, rel))
}

// relativeTo returns target relative to base, failing when target escapes base.
func relativeTo(base, target string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return "", err
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not under %s", target, base)
	}
	return rel, nil
}

// copyFile copies src to dst, creating parent directories and keeping the
// permission bits and modification time of src.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create backup %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write backup %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close backup %s: %w", dst, err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set backup permissions: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set backup times: %w", err)
	}
	return nil
}
