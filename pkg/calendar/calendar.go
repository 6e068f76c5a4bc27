package calendar

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/agentdesk/agentdesk/pkg/errx"
)

// Event is one exportable schedule entry derived from an assistant reply.
// It is ephemeral: nothing persists it, and repeated extraction of the
// same text yields fresh timestamps.
type Event struct {
	UID     string    `json:"uid"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

const (
	// eventDuration is the placeholder window applied to every event. The
	// extractor selects date-bearing lines but does not parse dates or
	// times out of them; Start is always the extraction wall-clock time.
	// Known fidelity gap, kept on purpose.
	eventDuration = time.Hour

	uidDomain = "agent.ai"

	googleLinkDetails = "Created by AI Agent"
	googleTitleMax    = 100
)

// A line qualifies as an event when it carries a 4-digit run (a year or a
// 24h time like 1030) or a full English weekday name.
var eventLineRe = regexp.MustCompile(`(?i)\d{4}|\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

// Extract scans text for date-bearing lines and synthesizes one Event per
// selected line. The UID index counts selected lines only.
func Extract(text string, now time.Time) []Event {
	var events []Event

	for _, line := range strings.Split(text, "\n") {
		if !eventLineRe.MatchString(line) {
			continue
		}

		start := now
		events = append(events, Event{
			UID:     fmt.Sprintf("event-%d@%s", len(events), uidDomain),
			Summary: strings.TrimSpace(line),
			Start:   start,
			End:     start.Add(eventDuration),
		})
	}

	return events
}

// formatICSDate renders a timestamp in the compact UTC form used by both
// the ICS payload and the Google Calendar link.
func formatICSDate(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// RenderICS produces a VCALENDAR payload with one VEVENT per event,
// suitable for download as an .ics file.
func RenderICS(events []Event, now time.Time) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\n")
	b.WriteString("VERSION:2.0\n")
	b.WriteString("CALSCALE:GREGORIAN\n")

	stamp := formatICSDate(now)
	for _, ev := range events {
		b.WriteString("BEGIN:VEVENT\n")
		b.WriteString("UID:" + ev.UID + "\n")
		b.WriteString("DTSTAMP:" + stamp + "\n")
		b.WriteString("DTSTART:" + formatICSDate(ev.Start) + "\n")
		b.WriteString("DTEND:" + formatICSDate(ev.End) + "\n")
		b.WriteString("SUMMARY:" + ev.Summary + "\n")
		b.WriteString("END:VEVENT\n")
	}

	b.WriteString("END:VCALENDAR\n")
	return b.String()
}

// GoogleLink builds a calendar deep link for the first non-blank line of
// text, with the same placeholder now/+1h window as Extract.
func GoogleLink(text string, now time.Time) (string, error) {
	var title string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			title = trimmed
			break
		}
	}
	if title == "" {
		return "", ErrNoEventText()
	}
	if len(title) > googleTitleMax {
		title = title[:googleTitleMax]
	}

	start := now
	end := start.Add(eventDuration)

	return "https://www.google.com/calendar/render?action=TEMPLATE" +
		"&text=" + url.QueryEscape(title) +
		"&dates=" + formatICSDate(start) + "/" + formatICSDate(end) +
		"&details=" + url.QueryEscape(googleLinkDetails), nil
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CALENDAR")

var (
	CodeNoEventText = ErrRegistry.Register("NO_EVENT_TEXT", errx.TypeValidation, http.StatusBadRequest, "No text to build a calendar entry from")
)

func ErrNoEventText() *errx.Error {
	return ErrRegistry.New(CodeNoEventText)
}
