// Package textload reads the text to be indexed from a file or stream.
package textload

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrSentinel    = errors.New("textload: text contains the sentinel symbol")
	ErrInvalidUTF8 = errors.New("textload: invalid UTF-8 encoding in input text")
)

// DefaultText is indexed when no input is given.
var DefaultText = strings.Repeat("ribaribigrizerep", 3)

type Options struct {
	// Drops the first line, e.g. a FASTA description line.
	SkipHeader bool
	// Normalizes the text to NFC. Requires valid UTF-8.
	Normalize bool
	// Symbol the text must not contain.
	Sentinel byte
}

// Load reads the whole text from r with line breaks removed.
func Load(r io.Reader, opts Options) ([]byte, error) {
	br := bufio.NewReader(r)
	if opts.SkipHeader {
		if _, err := br.ReadBytes('\n'); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading header")
		}
	}

	var buf bytes.Buffer
	for {
		line, err := br.ReadBytes('\n')
		buf.Write(bytes.TrimRight(line, "\r\n"))
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading text")
		}
	}

	text := buf.Bytes()
	if opts.Normalize {
		if !utf8.Valid(text) {
			return nil, ErrInvalidUTF8
		}
		text = norm.NFC.Bytes(text)
	}
	if i := bytes.IndexByte(text, opts.Sentinel); i >= 0 {
		return nil, errors.Wrapf(ErrSentinel, "%q at offset %d", opts.Sentinel, i)
	}
	return text, nil
}

func LoadFile(path string, opts Options) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}
	defer f.Close()

	text, err := Load(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return text, nil
}
