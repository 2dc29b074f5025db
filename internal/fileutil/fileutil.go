package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// maxUniqueAttempts bounds collision disambiguation before giving up on a file.
const maxUniqueAttempts = 10000

// ErrNoFreeName is returned when UniquePath exhausts its disambiguation attempts.
var ErrNoFreeName = errors.New("no free destination name")

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// MoveFile renames src to dst, falling back to copy+remove when the rename
// crosses filesystems. The destination directory must already exist; dst is
// never overwritten by the fallback path because callers resolve collisions
// with UniquePath first.
func MoveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := CopyFile(src, dst); err != nil {
			return fmt.Errorf("cross-device copy: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("remove source after copy: %w", err)
		}
		return nil
	}
	return renameErr
}

// UniquePath returns dst when it is free, otherwise the first available
// variant of the form "name (1).ext", "name (2).ext", and so on.
func UniquePath(dst string) (string, error) {
	if free, err := pathFree(dst); err != nil {
		return "", err
	} else if free {
		return dst, nil
	}

	dir := filepath.Dir(dst)
	ext := filepath.Ext(dst)
	base := filepath.Base(dst)
	stem := base[:len(base)-len(ext)]

	for attempt := 1; attempt <= maxUniqueAttempts; attempt++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, attempt, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoFreeName, dst)
}

func pathFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}
