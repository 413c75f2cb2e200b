package fileutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// HasMinLines reports whether the file at path has at least minLines lines.
// A minLines of 0 or less always passes without touching the file.
// Files ending in ".gz" are decompressed first; a file that cannot be
// opened or decompressed never passes.
func HasMinLines(path string, minLines int) bool {
	if minLines <= 0 {
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return false
		}
		defer gz.Close()
		r = gz
	}

	n, err := CountLines(r, minLines)
	if err != nil {
		return false
	}
	return n >= minLines
}

// CountLines counts the lines readable from r. A trailing line without a
// newline is counted. If limit > 0 counting stops once limit is reached.
func CountLines(r io.Reader, limit int) (int, error) {
	buf := make([]byte, 32*1024)
	count := 0
	pending := false // bytes seen since the last newline

	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			for {
				i := bytes.IndexByte(chunk, '\n')
				if i < 0 {
					break
				}
				count++
				if limit > 0 && count >= limit {
					return count, nil
				}
				chunk = chunk[i+1:]
			}
			pending = len(chunk) > 0
		}
		if errors.Is(err, io.EOF) {
			if pending {
				count++
			}
			return count, nil
		}
		if err != nil {
			return count, err
		}
	}
}
