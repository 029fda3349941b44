package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/linecore/core"
	"github.com/dshills/linecore/internal/config"
	"github.com/dshills/linecore/internal/logging"
)

// TabWidth is the number of columns a tab occupies.
const TabWidth = 4

var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleCaret     = tcell.StyleDefault.Underline(true)
	styleStatus    = tcell.StyleDefault.Reverse(true).Bold(true)
)

// View draws a document on a tcell screen and turns keys into requests.
// Except for Notify, its methods must be called from the goroutine running
// the event loop.
type View struct {
	screen tcell.Screen
	logger *log.Logger
	handle *core.Handle
	lines  *Lines
	path   string

	top    int
	width  int
	height int
	full   bool
	status string
}

// New creates a view drawing on screen. The screen must be initialized.
func New(screen tcell.Screen, logger *log.Logger) *View {
	if logger == nil {
		logger = logging.Default()
	}
	w, h := screen.Size()
	return &View{
		screen: screen,
		logger: logger,
		lines:  NewLines(),
		width:  w,
		height: h,
		full:   true,
	}
}

// Open creates the document the view edits. path is where Save writes;
// it is not read.
func (v *View) Open(path string, opts ...core.Option) error {
	if v.handle != nil {
		return errors.New("view already open")
	}
	h, err := core.New(v, append(opts, core.WithLogger(v.logger))...)
	if err != nil {
		return err
	}
	v.handle = h
	v.path = path
	return v.resync()
}

// Handle returns the document handle, or nil before Open.
func (v *View) Handle() *core.Handle {
	return v.handle
}

// Lines returns the document mirror.
func (v *View) Lines() *Lines {
	return v.lines
}

// Close releases the document.
func (v *View) Close() error {
	if v.handle == nil {
		return nil
	}
	return v.handle.Close()
}

func (v *View) resync() error {
	count, err := v.handle.LineCount()
	if err != nil {
		return err
	}
	if err := v.lines.Reset(count, v.handle.QueryLine); err != nil {
		return err
	}
	v.full = true
	return nil
}

// OnInvalidate implements core.Observer.
func (v *View) OnInvalidate(r core.Invalidation) {
	if err := v.lines.Apply(r, v.handle.QueryLine); err != nil {
		v.logger.Warn("invalidation did not apply, re-reading document",
			logging.FieldRanges, r.String(),
			logging.FieldError, err)
		if err := v.resync(); err != nil {
			v.logger.Error("re-reading document", logging.FieldError, err)
		}
	}
}

// OnResponse implements core.Observer.
func (v *View) OnResponse(resp core.Response) {
	if !resp.OK {
		v.status = resp.Error
		return
	}
	v.status = ""
}

// Notify shows msg in the status line. It is safe to call from any
// goroutine while Run is active.
func (v *View) Notify(msg string) {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(msg))
}

// Reload applies a reloaded configuration to the open document. It has the
// signature of config.ReloadFunc and is safe to call from any goroutine
// while Run is active. Only the line ending applies to an open document;
// the other editor settings take effect when a file is next opened.
func (v *View) Reload(cfg config.Config, err error) {
	if err != nil {
		v.Notify("config: " + err.Error())
		return
	}
	le, err := core.ParseLineEnding(cfg.Editor.LineEnding)
	if err == nil {
		err = v.handle.SetLineEnding(le)
	}
	if err != nil {
		v.Notify("config: " + err.Error())
		return
	}
	v.logger.Info("config reloaded", logging.FieldLineEnding, le.Name())
	v.Notify("config reloaded, saving with " + le.Name())
}

// HandleKey performs the action bound to ev. It reports whether the view
// should quit.
func (v *View) HandleKey(ev *tcell.EventKey) (bool, error) {
	action, req := Translate(ev)
	switch action {
	case ActionSubmit:
		return false, v.handle.Submit(req)
	case ActionSave:
		if err := v.Save(); err != nil {
			v.status = err.Error()
			return false, nil
		}
		v.status = "saved " + v.path
	case ActionQuit:
		return true, nil
	}
	return false, nil
}

// Save writes the document to the path given to Open.
func (v *View) Save() error {
	if v.path == "" {
		return errors.New("no file name")
	}
	f, err := os.Create(v.path)
	if err != nil {
		return err
	}
	n, err := v.handle.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", v.path, err)
	}
	v.logger.Info("saved", logging.FieldPath, v.path, logging.FieldBytes, n)
	return nil
}

// Run draws the view and processes events until a quit key is pressed or
// ctx is done.
func (v *View) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(ctx))
	})
	defer stop()

	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			quit, err := v.HandleKey(ev)
			if err != nil || quit {
				return err
			}
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.full = true
			v.screen.Sync()
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case context.Context:
				return data.Err()
			case string:
				v.status = data
			}
		}
		v.Draw()
	}
}

// Draw redraws the rows showing changed lines and the status line.
func (v *View) Draw() {
	rows := v.height - 1
	if rows <= 0 || v.handle == nil {
		return
	}

	caretLine, caretOff := v.primary()
	if top := scroll(v.top, caretLine, rows); top != v.top {
		v.top = top
		v.full = true
	}

	for row := range rows {
		n := v.top + row
		if !v.full && !v.lines.Dirty(n) {
			continue
		}
		v.clearRow(row)
		if line, ok := v.lines.Line(n); ok {
			v.drawLine(row, line)
		}
	}
	v.lines.Clean()
	v.full = false

	if line, ok := v.lines.Line(caretLine); ok {
		v.screen.ShowCursor(screenColumn(line.Text, caretOff), caretLine-v.top)
	}
	v.drawStatus(caretLine)
	v.screen.Show()
}

// primary returns the line and byte column of the primary caret.
func (v *View) primary() (line, col int) {
	sels, err := v.handle.Selections()
	if err != nil || len(sels) == 0 {
		return 0, 0
	}
	l, c, err := v.handle.Position(sels[0].Head)
	if err != nil {
		return 0, 0
	}
	return int(l), int(c)
}

func scroll(top, line, rows int) int {
	switch {
	case line < top:
		return line
	case line >= top+rows:
		return line - rows + 1
	}
	return top
}

func (v *View) clearRow(row int) {
	for x := range v.width {
		v.screen.SetContent(x, row, ' ', nil, styleText)
	}
}

// drawLine draws one line, highlighting selections and secondary carets.
func (v *View) drawLine(row int, line core.LineView) {
	carets := make(map[int]bool, len(line.Cursors))
	for _, c := range line.Cursors {
		carets[c] = true
	}
	styleAt := func(off int) tcell.Style {
		for _, s := range line.Selections {
			if off >= s.Start && off < s.End {
				return styleSelection
			}
		}
		if carets[off] {
			return styleCaret
		}
		return styleText
	}

	x, off := 0, 0
	g := uniseg.NewGraphemes(line.Text)
	for g.Next() && x < v.width {
		runes := g.Runes()
		style := styleAt(off)
		if runes[0] == '\t' {
			for range TabWidth {
				v.screen.SetContent(x, row, ' ', nil, style)
				x++
			}
		} else {
			v.screen.SetContent(x, row, runes[0], runes[1:], style)
			x += max(g.Width(), 1)
		}
		off += len(g.Str())
	}
	if carets[off] && x < v.width {
		v.screen.SetContent(x, row, ' ', nil, styleCaret)
	}
}

func (v *View) drawStatus(caretLine int) {
	row := v.height - 1
	rev, _ := v.handle.Revision()
	text := fmt.Sprintf(" %s  %d/%d  rev %d", v.name(), caretLine+1, v.lines.Len(), rev)
	if v.status != "" {
		text += "  " + v.status
	}
	x := 0
	for _, r := range text {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, row, r, nil, styleStatus)
		x += max(uniseg.StringWidth(string(r)), 1)
	}
	for ; x < v.width; x++ {
		v.screen.SetContent(x, row, ' ', nil, styleStatus)
	}
}

func (v *View) name() string {
	if v.path == "" {
		return "[scratch]"
	}
	return filepath.Base(v.path)
}

// screenColumn converts a byte column within text to a screen column.
func screenColumn(text string, col int) int {
	x, off := 0, 0
	g := uniseg.NewGraphemes(text)
	for off < col && g.Next() {
		if g.Str() == "\t" {
			x += TabWidth
		} else {
			x += max(g.Width(), 1)
		}
		off += len(g.Str())
	}
	return x
}
