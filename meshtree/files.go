package meshtree

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Save creates a file at path and writes obj to it with write.
func Save[T any](path string, obj T, write func(w io.Writer, obj T) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save")
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "save")
		}
	}()
	w := bufio.NewWriter(f)
	if err := write(w, obj); err != nil {
		return err
	}
	return errors.Wrap(w.Flush(), "save")
}

// Load opens the file at path and decodes it with read.
func Load[T any](path string, read func(r io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "load")
	}
	defer f.Close()
	return read(bufio.NewReader(f))
}
