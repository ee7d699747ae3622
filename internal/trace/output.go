package trace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// OutputFormatter renders events for --explain output.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter builds a formatter writing to w (os.Stdout if nil),
// auto-detecting color support from the writer's file descriptor.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTerminal(f)
	}
	return &OutputFormatter{useColor: useColor, writer: w}
}

// Handle implements Handler: format and print as events occur.
func (f *OutputFormatter) Handle(event Event) {
	if out := f.Format(event); out != "" {
		fmt.Fprintln(f.writer, out)
	}
}

// Format renders one event as a human-readable line.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event)

	switch event.Name {
	case QueryParsed:
		return fmt.Sprintf("%s parsed query: %s", latency, truncate(fmt.Sprint(event.Data["query"]), 80))

	case QueryValidated:
		return fmt.Sprintf("%s %s query validated", latency, f.colorize("✓", color.FgGreen))

	case QueryCompleted:
		rows, _ := event.Data["rows"].(int)
		return fmt.Sprintf("%s %s query completed with %s",
			latency, f.colorize("===", color.FgGreen), f.colorizeCount("rows", rows))

	case ConditionBegin:
		return fmt.Sprintf("%s %s %v starting", latency, f.colorize("-->", color.FgYellow), event.Data["condition"])

	case ConditionComplete:
		count, _ := event.Data["matches"].(int)
		return fmt.Sprintf("%s %v completed with %s", latency, event.Data["condition"], f.colorizeCount("matches", count))

	case LogicalCombine:
		op, _ := event.Data["op"].(string)
		left, _ := event.Data["left"].(int)
		right, _ := event.Data["right"].(int)
		result, _ := event.Data["result"].(int)
		return fmt.Sprintf("%s %s(%d, %d) -> %s", latency, op, left, right, f.colorizeCount("keys", result))

	case JoinBuildLeft, JoinBuildRight:
		rows, _ := event.Data["rows"].(int)
		return fmt.Sprintf("%s %s built %s", latency, event.Name, f.colorizeCount("rows", rows))

	case JoinInnerScan:
		left, _ := event.Data["left"].(int)
		right, _ := event.Data["right"].(int)
		matched, _ := event.Data["matched"].(int)
		return fmt.Sprintf("%s inner scan %d x %d -> %s", latency, left, right, f.colorizeCount("matches", matched))

	case JoinOuterFill:
		added, _ := event.Data["added"].(int)
		return fmt.Sprintf("%s outer fill added %s", latency, f.colorizeCount("rows", added))

	case ProjectBegin:
		return fmt.Sprintf("%s projecting %v groups", latency, event.Data["groups"])

	case ProjectComplete:
		rows, _ := event.Data["rows"].(int)
		return fmt.Sprintf("%s projected %s", latency, f.colorizeCount("rows", rows))

	case SnippetExpanded:
		sentences, _ := event.Data["sentences"].(int)
		return fmt.Sprintf("%s expanded snippet to %s", latency, f.colorizeCount("sentences", sentences))

	case ErrorParse, ErrorValidation, ErrorExecution:
		return fmt.Sprintf("%s %s %v", latency, f.colorize("✗", color.FgRed), event.Data["error"])

	default:
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

func (f *OutputFormatter) formatLatency(e Event) string {
	d := e.Latency
	if d <= 0 {
		return "[--]"
	}
	us := d.Microseconds()
	var s string
	if us < 1000 {
		s = fmt.Sprintf("[%dµs]", us)
		return f.colorize(s, color.FgGreen)
	}
	ms := float64(us) / 1000.0
	s = fmt.Sprintf("[%.1fms]", ms)
	switch {
	case ms < 50:
		return f.colorize(s, color.FgGreen)
	case ms < 200:
		return f.colorize(s, color.FgYellow)
	default:
		return f.colorize(s, color.FgRed)
	}
}

func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)
	if !f.useColor {
		return text
	}
	switch strings.ToLower(label) {
	case "rows", "matches":
		return color.MagentaString(text)
	case "keys", "sentences":
		return color.CyanString(text)
	default:
		return text
	}
}

func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// ConsoleHandler prints formatted events to stderr as they occur.
func ConsoleHandler() Handler {
	f := NewOutputFormatter(os.Stderr)
	return f.Handle
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
