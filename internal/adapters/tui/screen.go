package tui

import (
	"bytes"

	"github.com/vito/midterm"
)

// screen replays stage output through a virtual terminal so carriage returns
// and cursor movement render the way they would in a shell.
type screen struct {
	vt   *midterm.Terminal
	cols int
	buf  bytes.Buffer
}

func newScreen() *screen {
	return &screen{vt: midterm.NewAutoResizingTerminal()}
}

// Write feeds output to the terminal. Bare line feeds also return the cursor.
func (s *screen) Write(p []byte) (int, error) {
	data := bytes.ReplaceAll(p, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n"))
	if _, err := s.vt.Write(data); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Resize sets the column count lines wrap at.
func (s *screen) Resize(cols int) {
	if cols < 1 {
		cols = 1
	}
	if cols == s.cols {
		return
	}
	s.cols = cols
	s.vt.ResizeX(cols)
}

// String renders every used row.
func (s *screen) String() string {
	s.buf.Reset()
	for row := range s.vt.UsedHeight() {
		if row > 0 {
			_ = s.buf.WriteByte('\n')
		}
		_ = s.vt.RenderLine(&s.buf, row)
	}
	return s.buf.String()
}
