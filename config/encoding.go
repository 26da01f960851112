package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// DefaultEncoding of strings inside game files (tobj texture paths)
const DefaultEncoding = "Windows 1252"

var currentCharMap *charmap.Charmap = charmap.Windows1252

// normalizeEncodingName makes "windows-1250", "Windows1250" and "Windows 1250" equal
func normalizeEncodingName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '_' {
			return -1
		}
		return r
	}, strings.ToLower(name))
}

func findCharmap(name string) *charmap.Charmap {
	want := normalizeEncodingName(name)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && normalizeEncodingName(cm.String()) == want {
			return cm
		}
	}
	return nil
}

// SetEncoding selects process-wide charmap, must be called before any file is decoded
func SetEncoding(name string) error {
	cm := findCharmap(name)
	if cm == nil {
		return errors.Errorf("Failed to find encoding %q, see ListEncodings", name)
	}
	currentCharMap = cm
	return nil
}

func ListEncodings() []string {
	list := make([]string, 0, len(charmap.All))
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	return currentCharMap
}
