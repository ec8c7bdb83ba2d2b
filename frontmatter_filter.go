package mdtty

import (
	"bytes"
	"io"
	"strings"
)

// maxFrontMatterBytes bounds how much input is held back while looking for
// the end of a metadata block. Past it the input is released untouched.
const maxFrontMatterBytes = 64 * 1024

type frontMatterState int

const (
	fmOpening frontMatterState = iota
	fmFirstField
	fmInside
	fmDone
)

type frontMatterAction int

const (
	fmHold frontMatterAction = iota
	fmRelease
	fmStrip
)

// frontMatter drops a YAML ("---"), TOML ("+++") or JSON (";;;") metadata
// block opening a stream before it reaches w. Input is held back only
// until the first lines show whether such a block is present. A block
// that never closes is passed through as ordinary Markdown.
type frontMatter struct {
	w     io.Writer
	state frontMatterState
	delim string
	held  []byte
	scan  int
	// stripped is the size of the dropped block in bytes.
	stripped int
}

func newFrontMatter(w io.Writer) *frontMatter {
	return &frontMatter{w: w}
}

func (f *frontMatter) Write(b []byte) (int, error) {
	if f.state == fmDone {
		return f.w.Write(b)
	}
	f.held = append(f.held, b...)
	for f.state != fmDone {
		i := bytes.IndexByte(f.held[f.scan:], '\n')
		if i < 0 {
			break
		}
		end := f.scan + i + 1
		f.apply(f.step(string(trimCR(f.held[f.scan:end-1]))), end)
	}
	if f.state != fmDone && len(f.held) > maxFrontMatterBytes {
		f.state = fmDone
	}
	if err := f.release(); err != nil {
		return 0, err
	}
	return len(b), nil
}

// finish decides on whatever is still held at end of input.
func (f *frontMatter) finish() error {
	if f.state == fmDone {
		return nil
	}
	if f.scan < len(f.held) {
		f.apply(f.step(string(trimCR(f.held[f.scan:]))), len(f.held))
	}
	f.state = fmDone
	return f.release()
}

func (f *frontMatter) step(line string) frontMatterAction {
	switch f.state {
	case fmOpening:
		trimmed := strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		switch trimmed {
		case "---", "+++", ";;;":
			f.delim = trimmed
			f.state = fmFirstField
			return fmHold
		}
		return fmRelease
	case fmFirstField:
		if !metadataLine(line) {
			return fmRelease
		}
		f.state = fmInside
		return fmHold
	case fmInside:
		if strings.TrimSpace(line) == f.delim {
			return fmStrip
		}
		return fmHold
	}
	return fmRelease
}

func (f *frontMatter) apply(action frontMatterAction, end int) {
	switch action {
	case fmHold:
		f.scan = end
	case fmRelease:
		f.state = fmDone
	case fmStrip:
		f.stripped = end
		f.held = f.held[end:]
		f.state = fmDone
	}
}

func (f *frontMatter) release() error {
	if f.state != fmDone || len(f.held) == 0 {
		return nil
	}
	held := f.held
	f.held = nil
	f.scan = 0
	_, err := f.w.Write(held)
	return err
}

// metadataLine reports whether line looks like the first field of a
// metadata block rather than Markdown following a thematic break.
func metadataLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.ContainsAny(trimmed, ":=")
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}
