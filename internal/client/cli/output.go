package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
)

// seams for tests
var (
	isTerminalFd = term.IsTerminal
	getTermSize  = term.GetSize
)

func (a *App) status(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !a.styled {
		fmt.Fprintln(a.out, msg)
		return
	}

	color := ansiCyan
	switch kind {
	case statusSuccess:
		color = ansiGreen
	case statusError:
		color = ansiRed
	}
	fmt.Fprintf(a.out, "%s%s%s\n", color, msg, ansiReset)
}

func (a *App) printPreview(p models.Preview) {
	dims := "?"
	if p.Width > 0 && p.Height > 0 {
		dims = fmt.Sprintf("%dx%d", p.Width, p.Height)
	}
	fmt.Fprintf(a.out, "Preview: %s  %s  %s  %s\n", p.Name, p.MimeType, p.HumanSize, dims)
}

func (a *App) printRecord(r *models.UploadRecord) {
	line := fmt.Sprintf("%s  %-9s  %s  %s", r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.FileName, humanize.IBytes(uint64(max(r.Size, 0))))
	if r.Location != "" {
		line += "  " + r.Location
	}
	if r.Error != "" {
		line += "  (" + r.Error + ")"
	}
	if r.AttemptID != "" {
		line += "  [" + r.AttemptID + "]"
	}
	fmt.Fprintln(a.out, line)
}

func (a *App) printRecordDetails(r *models.UploadRecord) {
	fmt.Fprintf(a.out, "Attempt:  %s\n", r.AttemptID)
	fmt.Fprintf(a.out, "Time:     %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Status:   %s\n", r.Status)
	fmt.Fprintf(a.out, "File:     %s (%s, %s)\n", r.FileName, r.MimeType, humanize.IBytes(uint64(max(r.Size, 0))))
	if r.ObjectKey != "" {
		fmt.Fprintf(a.out, "Key:      %s\n", r.ObjectKey)
	}
	if r.Location != "" {
		fmt.Fprintf(a.out, "Location: %s\n", r.Location)
	}
	if r.Error != "" {
		fmt.Fprintf(a.out, "Error:    %s\n", r.Error)
	}
}

const (
	minBarWidth     = 10
	maxBarWidth     = 50
	defaultBarWidth = 30
)

// terminalWidth picks a bar width that fits the terminal behind w.
func terminalWidth(w io.Writer) int {
	type fder interface{ Fd() uintptr }
	f, ok := w.(fder)
	if !ok {
		return defaultBarWidth
	}
	cols, _, err := getTermSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return defaultBarWidth
	}
	return min(max(cols-10, minBarWidth), maxBarWidth)
}

type progressBar struct {
	mu      sync.Mutex
	w       io.Writer
	inPlace bool
	width   int
	last    int
	drawn   bool
}

func newProgressBar(w io.Writer, inPlace bool, width int) *progressBar {
	return &progressBar{w: w, inPlace: inPlace, width: width, last: -1}
}

// Update draws p. In place it redraws on every change; otherwise it prints
// a line each time another ten percent is reached.
func (b *progressBar) Update(p models.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Percent <= b.last {
		return
	}
	if !b.inPlace && b.last >= 0 && p.Percent/10 == b.last/10 && p.Percent != 100 {
		return
	}
	b.last = p.Percent
	b.drawn = true

	if b.inPlace {
		fmt.Fprintf(b.w, "\r%s", renderBar(p.Percent, b.width))
		return
	}
	fmt.Fprintln(b.w, renderBar(p.Percent, b.width))
}

// Done ends the in-place line.
func (b *progressBar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inPlace && b.drawn {
		fmt.Fprintln(b.w)
	}
}

func renderBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := width * percent / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), percent)
}

