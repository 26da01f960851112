package utils

import (
	"path"
	"strings"
)

// Helpers below work on game logical paths: always '/' separated,
// rooted at data base directory and without extension.

func IsAbsolutePath(p string) bool {
	return strings.HasPrefix(p, "/")
}

func Directory(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

func FileName(p string) string {
	return p[strings.LastIndexByte(p, '/')+1:]
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// RelativePath returns target relative to baseDir
func RelativePath(target, baseDir string) string {
	t := splitPath(target)
	b := splitPath(baseDir)

	common := 0
	for common < len(t)-1 && common < len(b) && t[common] == b[common] {
		common++
	}

	parts := make([]string, 0, len(b)-common+len(t)-common)
	for i := common; i < len(b); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, t[common:]...)
	return strings.Join(parts, "/")
}
