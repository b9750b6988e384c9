package sanitizer

import (
	"path"
	"regexp"
	"strings"
)

const (
	maxFilenameLength = 128
	fallbackFilename  = "upload"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reUnsafeFilenameChars = regexp.MustCompile(`[^0-9\p{L}._-]+`)
	reMultiUnderscore     = regexp.MustCompile(`_+`)
)

func baseName(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), `\`, "/")
	return path.Base(s)
}

func collapseUnderscores(s string) string {
	s = reMultiUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_.")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxFilenameLength {
		return string(r[len(r)-maxFilenameLength:])
	}
	return s
}

// SanitizeFilename reduces a client-supplied filename to a single safe path
// segment usable inside a blob key.
func SanitizeFilename(input string) string {
	p := Pipeline{
		baseName,
		func(s string) string { return reUnsafeFilenameChars.ReplaceAllString(s, "_") },
		collapseUnderscores,
		truncate,
	}
	out := p.Apply(input)
	if out == "" {
		return fallbackFilename
	}
	return out
}
