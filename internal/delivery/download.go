package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirDownloader writes payloads into a directory, replacing files with the
// same name atomically.
type DirDownloader struct {
	Dir string
}

var _ Downloader = DirDownloader{}

// Download writes p.Data to Dir/p.Filename and returns the final path.
func (d DirDownloader) Download(ctx context.Context, p Payload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &DownloadError{Filename: p.Filename, Err: err}
	}
	name := filepath.Base(p.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", &DownloadError{Filename: p.Filename, Err: fmt.Errorf("invalid file name")}
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", &DownloadError{Filename: name, Err: err}
	}

	tmp, err := os.CreateTemp(d.Dir, "."+name+".*")
	if err != nil {
		return "", &DownloadError{Filename: name, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(p.Data); err != nil {
		tmp.Close()
		return "", &DownloadError{Filename: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &DownloadError{Filename: name, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", &DownloadError{Filename: name, Err: err}
	}

	dest := filepath.Join(d.Dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", &DownloadError{Filename: name, Err: err}
	}
	return dest, nil
}

// DefaultDownloadDir resolves ~/Downloads, falling back to the working
// directory when no home is available.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
