package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	gamepads "github.com/doingharm/go-gamepad-state"
)

var (
	styleText    = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true)
	stylePressed = tcell.StyleDefault.Reverse(true)
)

// Screen draws frames onto a tcell screen.
type Screen struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewScreen initializes screen, which is finalized by Close.
func NewScreen(screen tcell.Screen) (*Screen, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()
	return &Screen{screen: screen}, nil
}

// OpenTerminal returns a Screen on the controlling terminal.
func OpenTerminal() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreen(screen)
}

func (s *Screen) Draw(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
	y := 0
	if f.Header != `` {
		s.text(0, y, f.Header, styleHeader)
		y += 2
	}
	s.buttons(y, f.State.Buttons)
	y++
	for _, line := range AxesLines(f.State) {
		s.text(0, y, line, styleText)
		y++
	}
	if f.HasLast {
		s.text(0, y, `Last   : `+FormatEvent(f.Last), styleText)
		y++
	}
	if f.Dropped > 0 {
		s.text(0, y, fmt.Sprintf("Dropped: %d", f.Dropped), styleText)
		y++
	}
	s.text(0, y+1, `q: quit`, styleText)
	s.screen.Show()
	return nil
}

// buttons draws the buttons line, laid out as ButtonsLine, with pressed
// buttons highlighted.
func (s *Screen) buttons(y int, b gamepads.Buttons) {
	x := s.text(0, y, `Buttons: `, styleText)
	for i := 0; i < gamepads.MaxButtons; i++ {
		style, r := styleText, '0'
		if b.Pressed(i) {
			style, r = stylePressed, '1'
		}
		s.screen.SetContent(x, y, r, nil, style)
		x += 2
		if i%4 == 3 {
			x++
		}
	}
}

func (s *Screen) text(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// WaitQuit blocks until the user presses q, Esc or Ctrl-C, or ctx is done.
// Resizes redraw the screen.
func (s *Screen) WaitQuit(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			s.mu.Lock()
			s.screen.Sync()
			s.mu.Unlock()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyRune:
				if ev.Rune() == 'q' || ev.Rune() == 'Q' {
					return nil
				}
			}
		}
	}
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Fini()
}
