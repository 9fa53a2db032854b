package fs

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// Kind is the broad media type of a journal entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindDirectory
	KindImage
	KindText
	KindAudio
	KindVideo
	KindDocument
	KindArchive
	KindBinary
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindDirectory: "folder",
	KindImage:     "image",
	KindText:      "text",
	KindAudio:     "audio",
	KindVideo:     "video",
	KindDocument:  "document",
	KindArchive:   "archive",
	KindBinary:    "binary",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// SniffSize is the number of bytes read to tell text from binary content.
const SniffSize = 4096

const nonPrintableThresholdPercent = 30

var kindsByExtension = map[string]Kind{
	".bmp": KindImage, ".gif": KindImage, ".jpeg": KindImage, ".jpg": KindImage,
	".png": KindImage, ".tif": KindImage, ".tiff": KindImage, ".webp": KindImage,
	".ico": KindImage, ".psd": KindImage,

	".flac": KindAudio, ".mp3": KindAudio, ".ogg": KindAudio, ".wav": KindAudio,
	".m4a": KindAudio, ".oga": KindAudio,

	".avi": KindVideo, ".mkv": KindVideo, ".mov": KindVideo, ".mp4": KindVideo,
	".ogv": KindVideo, ".webm": KindVideo,

	".doc": KindDocument, ".docx": KindDocument, ".odt": KindDocument, ".pdf": KindDocument,
	".ppt": KindDocument, ".pptx": KindDocument, ".xls": KindDocument, ".xlsx": KindDocument,
	".epub": KindDocument,

	".7z": KindArchive, ".bz2": KindArchive, ".gz": KindArchive, ".tar": KindArchive,
	".tgz": KindArchive, ".xz": KindArchive, ".zip": KindArchive, ".xo": KindArchive,

	".bin": KindBinary, ".class": KindBinary, ".dll": KindBinary, ".dylib": KindBinary,
	".exe": KindBinary, ".so": KindBinary, ".wasm": KindBinary, ".iso": KindBinary,

	".txt": KindText, ".md": KindText, ".csv": KindText, ".json": KindText,
	".toml": KindText, ".yaml": KindText, ".yml": KindText, ".log": KindText,
	".go": KindText, ".py": KindText, ".html": KindText, ".xml": KindText,
}

// KindByName classifies a file by its extension only.
func KindByName(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if kind, ok := kindsByExtension[ext]; ok {
		return kind
	}
	return KindUnknown
}

// DetectKind classifies path by extension, sniffing the content when the
// extension is not known.
func DetectKind(fsys afero.Fs, path string) Kind {
	if kind := KindByName(path); kind != KindUnknown {
		return kind
	}
	sample, err := ReadFileHead(fsys, path, SniffSize)
	if err != nil {
		return KindUnknown
	}
	if IsText(sample) {
		return KindText
	}
	return KindBinary
}

// IsText reports whether content looks like text.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > SniffSize {
		sample = sample[:SniffSize]
	}

	if hasUnicodeBOM(sample) {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	printable := 0
	for _, b := range sample {
		if isCommonTextByte(b) {
			printable++
		}
	}
	if printable == 0 {
		return false
	}
	nonPrintable := len(sample) - printable
	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

// ReadFileHead returns up to limit bytes from the beginning of path.
func ReadFileHead(fsys afero.Fs, path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, nil
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return io.ReadAll(io.LimitReader(f, limit))
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == 0x09 || b == 0x0A || b == 0x0D:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b == 0x1B:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

func hasUnicodeBOM(sample []byte) bool {
	switch {
	case len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF:
		return true
	case len(sample) >= 2 && sample[0] == 0xFF && sample[1] == 0xFE:
		return true
	case len(sample) >= 2 && sample[0] == 0xFE && sample[1] == 0xFF:
		return true
	}
	return false
}
