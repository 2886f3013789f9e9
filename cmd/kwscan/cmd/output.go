package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/corey/kwscan/internal/adapters/socket"
	"github.com/corey/kwscan/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

func paint(s, color string, on bool) string {
	if !on {
		return s
	}
	return color + s + colorReset
}

// formatMatch renders one match as [file:]offset<TAB>keyword.
func formatMatch(file string, m ports.Match, color bool) string {
	var sb strings.Builder
	if file != "" {
		sb.WriteString(paint(file, colorCyan, color))
		sb.WriteString(":")
	}
	sb.WriteString(strconv.Itoa(m.Offset))
	sb.WriteString("\t")
	sb.WriteString(paint(m.Keyword, colorBold+colorMagenta, color))
	return sb.String()
}

// matchPrinter writes search results in the format selected by flags.
type matchPrinter struct {
	w      io.Writer
	prefix bool // prefix lines with the input name
	count  bool // -c: one count per input
	quiet  bool // -q: exit status only
	json   bool // one JSON object per input
	color  bool
}

type jsonResult struct {
	File    string        `json:"file,omitempty"`
	Count   int           `json:"count"`
	Matches []ports.Match `json:"matches"`
}

func (p matchPrinter) print(file string, matches []ports.Match) error {
	if p.quiet {
		return nil
	}
	if !p.prefix {
		file = ""
	}
	switch {
	case p.json:
		if matches == nil {
			matches = []ports.Match{}
		}
		return json.NewEncoder(p.w).Encode(jsonResult{File: file, Count: len(matches), Matches: matches})
	case p.count:
		if file != "" {
			_, err := fmt.Fprintf(p.w, "%s:%d\n", paint(file, colorCyan, p.color), len(matches))
			return err
		}
		_, err := fmt.Fprintf(p.w, "%d\n", len(matches))
		return err
	}
	for _, m := range matches {
		if _, err := fmt.Fprintln(p.w, formatMatch(file, m, p.color)); err != nil {
			return err
		}
	}
	return nil
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *socket.HealthResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ kwscan daemon%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  Status:    %s%s%s\n", colorGreen, h.Status, colorReset))
	sb.WriteString(fmt.Sprintf("  Set:       %s\n", h.Set))
	sb.WriteString(fmt.Sprintf("  Engine:    %s\n", h.Engine))
	sb.WriteString(fmt.Sprintf("  Keywords:  %d\n", h.Keywords))
	if h.States > 0 {
		sb.WriteString(fmt.Sprintf("  States:    %d\n", h.States))
	}
	sb.WriteString(fmt.Sprintf("  Searches:  %d\n", h.Searches))
	sb.WriteString(fmt.Sprintf("  Uptime:    %s\n", h.Uptime))
	return sb.String()
}

// writeSets prints stored keyword sets as an aligned table.
func writeSets(w io.Writer, sets []ports.SetInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKEYWORDS\tUPDATED")
	for _, s := range sets {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Count, s.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
