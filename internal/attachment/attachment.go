package attachment

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

var (
	ErrDirectory  = errors.New("attachment: path is a directory")
	ErrNotAllowed = errors.New("attachment: file type not allowed")
)

// File is a staged attachment. Only Name is shown in the widget; the rest is
// used when the file is submitted.
type File struct {
	Name string
	Path string
	Size int64
	// Ext is the lower-case extension without the dot, sniffed from the
	// header when possible.
	Ext  string
	MIME string
}

// Inspect builds a File for path, sniffing the type from the file header and
// falling back to the extension.
func Inspect(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s: %w", path, ErrDirectory)
	}
	f := File{
		Name: info.Name(),
		Path: path,
		Size: info.Size(),
		Ext:  strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return File{}, fmt.Errorf("sniff attachment: %w", err)
	}
	if kind != filetype.Unknown {
		f.Ext = kind.Extension
		f.MIME = kind.MIME.Value
	} else if f.Ext != "" {
		f.MIME = mime.TypeByExtension("." + f.Ext)
	}
	if f.MIME == "" {
		f.MIME = "application/octet-stream"
	}
	return f, nil
}

// Policy is the allow-list applied before a file is submitted.
type Policy struct {
	// Accept holds extensions without the dot. Empty accepts everything.
	Accept []string
}

func (p Policy) Allows(f File) error {
	if len(p.Accept) == 0 {
		return nil
	}
	for _, ext := range p.Accept {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(ext), "."), f.Ext) {
			return nil
		}
	}
	return fmt.Errorf("%s (%s): %w", f.Name, f.Ext, ErrNotAllowed)
}
