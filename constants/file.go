package constants

import "strings"

// TabularExtensions holds the file extensions routed to the tabular reader.
var TabularExtensions = map[string]struct{}{
	"csv":  {},
	"xlsx": {},
}

// DocumentExtensions holds the file extensions routed to text extraction.
var DocumentExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
