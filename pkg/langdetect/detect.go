// Package langdetect decides whether a file without a known Ruby extension
// holds Ruby code. It relies on go-enry's filename, extension, and shebang
// tables.
package langdetect

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// Ruby is the go-enry language name for Ruby.
const Ruby = "Ruby"

// headSize is how much of a file is read to find a shebang.
const headSize = 256

// Detect returns the language of a file from its name or, failing that,
// from the shebang in head. It returns "" when unsure.
func Detect(path string, head []byte) string {
	name := filepath.Base(path)

	if lang, safe := enry.GetLanguageByFilename(name); safe && lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByExtension(name); safe && lang != "" {
		return lang
	}
	if len(head) == 0 {
		return ""
	}
	if lang, safe := enry.GetLanguageByShebang(firstLine(head)); safe {
		return lang
	}
	return ""
}

// IsRuby reports whether the file named path is Ruby, reading the first
// bytes only for files whose name is inconclusive.
func IsRuby(path string) bool {
	name := filepath.Base(path)
	if lang := Detect(name, nil); lang != "" {
		return lang == Ruby
	}
	if filepath.Ext(name) != "" {
		return false
	}

	head, err := readHead(path)
	if err != nil {
		return false
	}
	return Detect(name, head) == Ruby
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, headSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

func firstLine(content []byte) []byte {
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		return content[:i+1]
	}
	return content
}
