package coding

import (
	"compress/gzip"
	"encoding/base64"
	"io"
	"mime/quotedprintable"
)

const defaultBase64LineLength = 76

var defaultBase64LineBreak = []byte{'\r', '\n'}

// writer is an internal helper to make wrapping easier.
type writer struct {
	io.Writer
	closers []io.Closer
}

// Close closes each closer in order, stopping at the first failure.
func (w *writer) Close() error {
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// lineWriter inserts a line break after every so many bytes.
type lineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (lw *lineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		take := lw.every - lw.acc
		if take > len(b) {
			take = len(b)
		}

		wn, err := lw.w.Write(b[:take])
		n += wn
		if err != nil {
			return n, err
		}

		lw.acc += take
		b = b[take:]
		if lw.acc == lw.every {
			if _, err := lw.w.Write(lw.lbr); err != nil {
				return n, err
			}
			lw.acc = 0
		}
	}
	return n, nil
}

// Close ends a partial line with a line break.
func (lw *lineWriter) Close() error {
	if lw.acc == 0 {
		return nil
	}
	lw.acc = 0
	_, err := lw.w.Write(lw.lbr)
	return err
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the give io.Writer,
// breaking lines every 76 characters with CRLF. Close flushes the final
// group and does not close w.
func NewBase64Encoder(w io.Writer) io.WriteCloser {
	lw := &lineWriter{
		every: defaultBase64LineLength,
		lbr:   defaultBase64LineBreak,
		w:     w,
	}
	enc := base64.NewEncoder(base64.StdEncoding, lw)
	return &writer{enc, []io.Closer{enc, lw}}
}

// NewQuotedPrintableEncoder will transform all bytes written to the returned
// io.WriteCloser into quoted-printable form and write them to the given
// io.Writer.
func NewQuotedPrintableEncoder(w io.Writer) io.WriteCloser {
	return quotedprintable.NewWriter(w)
}

// NewGzipEncoder compresses everything written to the returned
// io.WriteCloser into w. Close writes the gzip trailer and does not close w.
func NewGzipEncoder(w io.Writer) io.WriteCloser {
	return gzip.NewWriter(w)
}

// NewAsIsEncoder returns an io.WriteCloser that writes bytes as-is.
func NewAsIsEncoder(w io.Writer) io.WriteCloser {
	return &writer{w, nil}
}
