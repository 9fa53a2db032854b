//go:build windows

package fs

import (
	"strings"

	"golang.org/x/sys/windows"
)

// IsHidden reports entries carrying the hidden attribute. Dot files count
// as hidden when the attributes cannot be read.
func IsHidden(fullPath string, name string) bool {
	attrs, err := fileAttributes(fullPath)
	if err != nil {
		return strings.HasPrefix(name, ".")
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

// ShouldHideFromListing reports system junctions such as "Application Data"
// that are never journal entries, even with hidden files shown.
func ShouldHideFromListing(fullPath, _ string) bool {
	attrs, err := fileAttributes(fullPath)
	if err != nil {
		return false
	}
	const mask = windows.FILE_ATTRIBUTE_SYSTEM | windows.FILE_ATTRIBUTE_REPARSE_POINT
	return attrs&mask == mask
}

func fileAttributes(path string) (uint32, error) {
	if path == "" {
		return 0, windows.ERROR_INVALID_NAME
	}
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	return windows.GetFileAttributes(ptr)
}
