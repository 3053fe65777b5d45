package coding

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
)

// gzipReadSize is how much decompressed output is handed on at a time.
const gzipReadSize = 32 * 1024

type gzipDecoder struct {
	next Decoder

	pw   *io.PipeWriter
	done chan struct{}
	err  error
}

// NewGzipDecoder returns a Decoder that inflates gzip data and passes the
// result to next. The inflating runs on its own goroutine, started by the
// first non-empty Decode, reading from a pipe that Decode writes into. A
// Decode call blocks until the goroutine has taken all of its bytes, which
// bounds the buffering to what the gzip reader holds internally.
//
// Errors from the gzip stream or from next are returned by the next call to
// Decode or by EndOfData. Concatenated gzip members are decoded as one
// stream.
func NewGzipDecoder(next Decoder) Decoder {
	return &gzipDecoder{next: next}
}

func (d *gzipDecoder) start(ctx context.Context) {
	pr, pw := io.Pipe()
	d.pw = pw
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		d.err = d.inflate(ctx, pr)
		_ = pr.CloseWithError(d.err)
	}()
}

func (d *gzipDecoder) inflate(ctx context.Context, r io.Reader) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}

	buf := make([]byte, gzipReadSize)
	for {
		n, err := zr.Read(buf)
		if n > 0 {
			if err := d.next.Decode(ctx, buf[:n]); err != nil {
				return err
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
	}
}

func (d *gzipDecoder) Decode(ctx context.Context, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	if d.pw == nil {
		d.start(ctx)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = d.pw.CloseWithError(ctx.Err())
	})
	defer stop()

	if _, err := d.pw.Write(p); err != nil {
		if errors.Is(err, io.ErrClosedPipe) {
			<-d.done
			if d.err != nil {
				return d.err
			}
			return fmt.Errorf("gzip: data after end of stream")
		}
		return err
	}
	return nil
}

func (d *gzipDecoder) EndOfData(ctx context.Context) error {
	if d.pw == nil {
		return d.next.EndOfData(ctx)
	}

	_ = d.pw.Close()
	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if d.err != nil {
		return d.err
	}
	return d.next.EndOfData(ctx)
}
