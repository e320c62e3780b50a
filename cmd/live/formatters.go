package live

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Taichi-iskw/yt-live/internal/model"
	liveSvc "github.com/Taichi-iskw/yt-live/internal/service/live"
)

// Formatter defines interface for output formatting
type Formatter interface {
	Format(state liveSvc.State) (string, error)
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// Format formats the state as JSON
func (f *JSONFormatter) Format(state liveSvc.State) (string, error) {
	type Output struct {
		Videos         []*model.Video  `json:"videos"`
		ErrorChannels  []model.Channel `json:"error_channels"`
		AttemptedFetch bool            `json:"attempted_fetch"`
	}

	jsonBytes, err := json.MarshalIndent(Output{
		Videos:         state.Videos,
		ErrorChannels:  state.ErrorChannels,
		AttemptedFetch: state.AttemptedFetch,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return string(jsonBytes), nil
}

// TextFormatter formats output as plain text
type TextFormatter struct{}

// Format formats the state as one line per stream
func (f *TextFormatter) Format(state liveSvc.State) (string, error) {
	var output strings.Builder

	if len(state.Videos) == 0 {
		if state.AttemptedFetch {
			output.WriteString("No live streams\n")
		} else {
			output.WriteString("Nothing fetched yet, run with --refresh\n")
		}
	}

	for _, v := range state.Videos {
		status := "     "
		switch {
		case v.LiveNow:
			status = "LIVE "
		case v.IsUpcoming:
			status = "SOON "
		}
		output.WriteString(fmt.Sprintf("%s %s  %s", status, v.PublishedDate.Local().Format(time.DateTime), v.Title))
		if v.Author != "" {
			output.WriteString(" - " + v.Author)
		}
		url := v.URL
		if url == "" {
			url = "https://www.youtube.com/watch?v=" + v.ID
		}
		output.WriteString("\n      " + url + "\n")
	}

	if len(state.ErrorChannels) > 0 {
		output.WriteString("\nChannels that no longer exist:\n")
		for _, ch := range state.ErrorChannels {
			output.WriteString(fmt.Sprintf("  %s %s\n", ch.ID, ch.Name))
		}
	}

	return strings.TrimRight(output.String(), "\n"), nil
}

// GetFormatter returns the appropriate formatter based on format string
func GetFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{}, nil
	case "text", "txt":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ProgressPrinter renders the refresh progress on a terminal line
type ProgressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	visible bool
}

// NewProgressPrinter creates a ProgressPrinter writing to w
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// SetVisible shows or hides the progress line
func (p *ProgressPrinter) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible && !visible {
		fmt.Fprintln(p.w)
	}
	p.visible = visible
}

// SetPercentage redraws the progress line
func (p *ProgressPrinter) SetPercentage(percentage float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible {
		return
	}
	fmt.Fprintf(p.w, "\rLoading live streams: %3.0f%%", percentage)
}

// NotificationPrinter prints notifications, with their copy text as details
type NotificationPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotificationPrinter creates a NotificationPrinter writing to w
func NewNotificationPrinter(w io.Writer) *NotificationPrinter {
	return &NotificationPrinter{w: w}
}

// Notify prints n
func (p *NotificationPrinter) Notify(n liveSvc.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n%s\n", n.Message)
	if n.CopyText != "" {
		fmt.Fprintf(p.w, "  details: %s\n", n.CopyText)
	}
}
