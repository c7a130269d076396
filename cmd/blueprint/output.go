package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"golang.org/x/term"
)

const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

var logColors = map[models.LogType]string{
	models.LogInfo:    colorCyan,
	models.LogSuccess: colorGreen,
	models.LogWarning: colorYellow,
	models.LogError:   colorRed,
}

// logPrinter writes run log entries, coloured only when w is a terminal.
type logPrinter struct {
	w     io.Writer
	color bool
}

func newLogPrinter(w io.Writer) *logPrinter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &logPrinter{w: w, color: color}
}

func (p *logPrinter) Print(e models.LogEntry) {
	if !p.color {
		fmt.Fprintf(p.w, "[%s] %-7s %s\n", e.Timestamp, e.Type, e.Message)
		return
	}
	fmt.Fprintf(p.w, "[%s] %s%-7s%s %s\n", e.Timestamp, logColors[e.Type], e.Type, colorReset, e.Message)
}
