package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReaderSource implements LineSource over any io.Reader.
// Lines have no length limit.
type ReaderSource struct {
	name    string
	reader  *bufio.Reader
	closer  io.Closer
	lineNum int
	done    bool
}

// NewReaderSource creates a LineSource that reads lines from r.
// The name is used as the line source in reports.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{
		name:   name,
		reader: bufio.NewReaderSize(r, 64*1024),
	}
}

// Next returns the next line, numbering every line read including blank ones.
// A trailing "\r\n" or "\n" is stripped. Returns io.EOF when the reader is
// exhausted.
func (s *ReaderSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	text, err := s.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		s.done = true
		// Nothing after the last newline.
		if text == "" {
			return nil, io.EOF
		}
	}

	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")

	s.lineNum++
	return &LogLine{
		Content: text,
		Source:  s.name,
		LineNum: s.lineNum,
	}, nil
}

// Name returns the source name.
func (s *ReaderSource) Name() string {
	return s.name
}

// Close releases the underlying reader if it was opened by the source.
func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// OpenFileSource opens a log file as a LineSource.
func OpenFileSource(path string) (*ReaderSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	src := NewReaderSource(path, f)
	src.closer = f
	return src, nil
}
