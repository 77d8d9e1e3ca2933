// Package viewer holds the presentation-side helpers: reading a document for
// transport to a display surface and opening it with the OS viewer.
package viewer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
)

// DefaultMaxBytes caps documents read for display.
const DefaultMaxBytes int64 = 50 << 20

var (
	ErrNotFound     = errors.New("document not found")
	ErrSizeExceeded = errors.New("document too large")
	ErrUnsupported  = errors.New("unsupported platform")
)

// ReadBytes reads the file at path if it is at most limit bytes. Larger files are
// rejected from their size without being read.
func ReadBytes(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrSizeExceeded, path, info.Size(), limit)
	}

	// The file may grow after Stat; never read past the limit.
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrSizeExceeded, path, limit)
	}
	return data, nil
}

// Base64 reads the document like ReadBytes and encodes it with standard base64.
func Base64(path string, limit int64) (string, error) {
	data, err := ReadBytes(path, limit)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// OpenCommand returns the command that opens path with the OS file association.
func OpenCommand(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path), nil
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, goos)
}

// Open shows the document in the default viewer without waiting for it to exit.
func Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return err
	}

	cmd, err := OpenCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unable to open %s: %w", path, err)
	}
	go cmd.Wait()
	return nil
}
