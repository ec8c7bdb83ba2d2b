package mdtty

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// SimulateRequest configures Simulate.
type SimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Width     int
	Theme     Theme
	ChunkSize int
	Delay     time.Duration
	Options   []RenderOption
}

// Simulate renders Markdown from Reader as if it arrived in small pieces
// from a live source. A producer goroutine cuts the input into ChunkSize
// rune chunks and hands them over after Delay each; the caller's goroutine
// is the only one touching the renderer. Canceling ctx stops both sides.
func Simulate(ctx context.Context, req SimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("simulate: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("simulate: writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("simulate: chunk size must be > 0")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	opts := RenderRequest{Theme: req.Theme, Options: req.Options}.options()
	p := NewParser(NewRenderer(req.Writer, req.Width, opts...))

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan string)
	g.Go(func() error {
		defer close(chunks)
		return produceChunks(gctx, req.Reader, req.ChunkSize, req.Delay, chunks)
	})
	g.Go(func() error {
		for chunk := range chunks {
			if _, err := p.WriteString(chunk); err != nil {
				return fmt.Errorf("simulate: %w", err)
			}
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		if err := p.Close(); err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func produceChunks(ctx context.Context, src io.Reader, size int, delay time.Duration, out chan<- string) error {
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(src)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()

	var (
		chunk strings.Builder
		count int
		first = true
	)
	send := func() error {
		if count == 0 {
			return nil
		}
		if !first && delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		first = false
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- chunk.String():
		}
		chunk.Reset()
		count = 0
		return nil
	}
	for {
		r, n, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("simulate: read: %w", err)
		}
		if (r == utf8.RuneError && n == 1) || isControlRune(r) {
			continue
		}
		chunk.WriteRune(r)
		count++
		if count >= size {
			if err := send(); err != nil {
				return err
			}
		}
	}
	return send()
}
