package display

import (
	"io"
	"strings"
)

const (
	saveCursor    = "\033[s"
	restoreCursor = "\033[u"
	clearBelow    = "\033[0J"
)

// Plain writes frames as text. Unless Scroll is set, each frame replaces the
// previous one using ANSI cursor save and restore.
type Plain struct {
	w       io.Writer
	Scroll  bool
	started bool
}

func NewPlain(w io.Writer) *Plain { return &Plain{w: w} }

func (p *Plain) Draw(f Frame) error {
	var sb strings.Builder
	if !p.Scroll {
		if !p.started {
			sb.WriteString("\n" + saveCursor)
			p.started = true
		}
		sb.WriteString(restoreCursor + clearBelow)
	}
	for _, line := range Lines(f) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}
