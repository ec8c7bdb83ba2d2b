package mdtty

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

func (req RenderRequest) options() []RenderOption {
	if req.Theme == nil {
		return req.Options
	}
	return append([]RenderOption{WithTheme(req.Theme)}, req.Options...)
}

// Render renders Markdown from a stream. Output for each line is written as
// soon as the line is complete.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	r := NewRenderer(req.Writer, req.Width, req.options()...)
	return feed(req.Reader, NewParser(r), r.log)
}

// feed copies src into p through the input filters and closes p.
func feed(src io.Reader, p *Parser, log logrus.FieldLogger) error {
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(src)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()

	var (
		fm    = newFrontMatter(p)
		buf   [4096]byte
		clean []byte
		tail  []byte
	)
	for {
		n, err := reader.Read(buf[:])
		if n > 0 {
			data := append(tail, buf[:n]...)
			if cap(clean) < len(data) {
				clean = make([]byte, len(data))
			}
			out, rest := sanitizeBytes(clean[:len(data)], data)
			tail = append([]byte(nil), rest...)
			if len(out) > 0 {
				if _, werr := fm.Write(out); werr != nil {
					return fmt.Errorf("render: %w", werr)
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("render: read: %w", err)
		}
	}
	if err := fm.finish(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if fm.stripped > 0 {
		log.WithFields(logrus.Fields{"delimiter": fm.delim, "bytes": fm.stripped}).Debug("front matter skipped")
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
