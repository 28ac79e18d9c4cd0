package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Neumenon/primecode/primecode"
)

// Create creates path for writing, compressing by its extension.
// Closing the result flushes the compressor and the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buffered := bufio.NewWriter(f)
	comp, err := NewCompressWriter(buffered, CompressionForPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriter{WriteCloser: comp, buffered: buffered, file: f}, nil
}

type fileWriter struct {
	io.WriteCloser
	buffered *bufio.Writer
	file     *os.File
}

func (w *fileWriter) Close() error {
	err := w.WriteCloser.Close()
	if ferr := w.buffered.Flush(); err == nil {
		err = ferr
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens path for reading, decompressing by its extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decomp, err := NewDecompressReader(bufio.NewReader(f), CompressionForPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{ReadCloser: decomp, file: f}, nil
}

type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (r *fileReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ============================================================
// Dictionary files
// ============================================================

// FileSink writes a dictionary being built to a forward and an inverted
// file. It must be closed once Build returns.
type FileSink struct {
	*DictionaryWriter
	forward io.WriteCloser
	inverse io.WriteCloser
}

// CreateFileSink creates both dictionary files.
func CreateFileSink(forwardPath, inversePath string) (*FileSink, error) {
	forward, err := Create(forwardPath)
	if err != nil {
		return nil, fmt.Errorf("create dictionary: %w", err)
	}
	inverse, err := Create(inversePath)
	if err != nil {
		forward.Close()
		return nil, fmt.Errorf("create inverted dictionary: %w", err)
	}
	return &FileSink{
		DictionaryWriter: NewDictionaryWriter(forward, inverse),
		forward:          forward,
		inverse:          inverse,
	}, nil
}

// Close flushes and closes both files.
func (s *FileSink) Close() error {
	return errors.Join(s.forward.Close(), s.inverse.Close())
}

// ReadDictionaryFile loads a forward dictionary file.
func ReadDictionaryFile(path string) (*primecode.Dictionary, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	d, err := ReadDictionary(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ReadInvertedFile loads an inverted dictionary file.
func ReadInvertedFile(path string) (*primecode.InvertedDictionary, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	inv, err := ReadInverted(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}
