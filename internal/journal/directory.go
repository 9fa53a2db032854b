package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	fsutil "github.com/kk-code-lab/rjournal/internal/fs"
)

// MarkStore persists keep flags for entries the source cannot store itself.
type MarkStore interface {
	Marks(ctx context.Context) (map[string]bool, error)
	SetMark(ctx context.Context, uid string, keep bool) error
}

// DirectorySource lists the files of one directory as journal entries.
type DirectorySource struct {
	Fs         afero.Fs
	Path       string
	ShowHidden bool
	// Marks stores keep flags; without it SetKeep fails with ErrReadOnly.
	Marks MarkStore
}

// NewDirectorySource lists path on the OS filesystem.
func NewDirectorySource(path string) *DirectorySource {
	return &DirectorySource{Fs: afero.NewOsFs(), Path: path}
}

func (d *DirectorySource) Describe() string {
	return d.Path
}

// Query reads the directory. Entries are newest first.
func (d *DirectorySource) Query(ctx context.Context) (Entries, error) {
	infos, err := afero.ReadDir(d.Fs, d.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", d.Path, err)
	}

	var marks map[string]bool
	if d.Marks != nil {
		marks, err = d.Marks.Marks(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot read marks: %w", err)
		}
	}

	entries := make(Entries, 0, len(infos))
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rawName := info.Name()
		fullPath := filepath.Join(d.Path, rawName)
		if fsutil.ShouldHideFromListing(fullPath, rawName) {
			continue
		}
		if !d.ShowHidden && fsutil.IsHidden(fullPath, rawName) {
			continue
		}

		kind := fsutil.KindDirectory
		if !info.IsDir() {
			kind = fsutil.DetectKind(d.Fs, fullPath)
		}

		entries = append(entries, Entry{
			UID:      fullPath,
			Title:    norm.NFC.String(rawName),
			Kind:     kind,
			Size:     info.Size(),
			Modified: info.ModTime(),
			Keep:     marks[fullPath],
			Progress: -1,
		})
	}

	sortNewestFirst(entries)
	return entries, nil
}

func (d *DirectorySource) SetKeep(ctx context.Context, uid string, keep bool) error {
	if d.Marks == nil {
		return ErrReadOnly
	}
	return d.Marks.SetMark(ctx, uid, keep)
}

// SetTitle renames the file within its directory.
func (d *DirectorySource) SetTitle(_ context.Context, uid, title string) error {
	title = strings.TrimSpace(title)
	if title == "" || title == "." || title == ".." || strings.ContainsAny(title, `/\`) {
		return fmt.Errorf("invalid file name %q", title)
	}
	target := filepath.Join(filepath.Dir(uid), title)
	if target == uid {
		return nil
	}
	if _, err := d.Fs.Stat(target); err == nil {
		return fmt.Errorf("cannot rename to %s: %w", title, os.ErrExist)
	}
	if err := d.Fs.Rename(uid, target); err != nil {
		return fmt.Errorf("cannot rename %s: %w", uid, err)
	}
	return nil
}
