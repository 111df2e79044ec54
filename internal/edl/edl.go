package edl

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Edit types found in the fourth event column.
const (
	EditCut      = "C"
	EditDissolve = "D"
	EditWipe     = "W"
	EditKey      = "K"
)

var timecodePattern = regexp.MustCompile(`^\d{1,2}[:;.,]\d{2}[:;.,]\d{2}[:;.,]\d{2}$`)

// Event is one edit line plus the comment lines that follow it.
type Event struct {
	Number int    `json:"number"`
	Reel   string `json:"reel"`
	Track  string `json:"track"`
	Edit   string `json:"edit"`
	// Transition is the dissolve or wipe duration in frames.
	Transition int    `json:"transition,omitempty"`
	SourceIn   string `json:"source_in"`
	SourceOut  string `json:"source_out"`
	RecordIn   string `json:"record_in"`
	RecordOut  string `json:"record_out"`
	ClipName   string `json:"clip_name,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
	// Comments keeps every "*" line attached to the event, without the marker.
	Comments []string `json:"comments,omitempty"`
	Line     int      `json:"line"`
}

// IsVideo reports whether the event carries picture.
func (e Event) IsVideo() bool {
	track := strings.ToUpper(e.Track)
	return track == "B" || strings.Contains(track, "V")
}

// List is a parsed EDL.
type List struct {
	Title string `json:"title,omitempty"`
	// DropFrame is set by an "FCM: DROP FRAME" header.
	DropFrame bool    `json:"drop_frame"`
	Events    []Event `json:"events"`
}

// ParseError reports a malformed line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parse reads a CMX3600 EDL. Lines that are neither headers, events nor
// comments (AUD, SPLIT, M2, ...) are ignored.
func Parse(r io.Reader) (*List, error) {
	list := &List{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "TITLE:"):
			list.Title = strings.TrimSpace(line[len("TITLE:"):])
			continue
		case strings.HasPrefix(upper, "FCM:"):
			list.DropFrame = !strings.Contains(upper, "NON") && strings.Contains(upper, "DROP")
			continue
		case strings.HasPrefix(line, "*"):
			if len(list.Events) > 0 {
				attachComment(&list.Events[len(list.Events)-1], strings.TrimSpace(line[1:]))
			}
			continue
		}

		fields := strings.Fields(line)
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		event, err := parseEvent(fields)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Message: err.Error()}
		}
		event.Line = lineNo
		list.Events = append(list.Events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func parseEvent(fields []string) (Event, error) {
	if len(fields) != 8 && len(fields) != 9 {
		return Event{}, fmt.Errorf("expected 8 or 9 columns, got %d", len(fields))
	}
	number, _ := strconv.Atoi(fields[0])
	event := Event{
		Number: number,
		Reel:   fields[1],
		Track:  fields[2],
		Edit:   strings.ToUpper(fields[3]),
	}
	times := fields[4:]
	if len(fields) == 9 {
		duration, err := strconv.Atoi(fields[4])
		if err != nil {
			return Event{}, fmt.Errorf("invalid transition duration %q", fields[4])
		}
		event.Transition = duration
		times = fields[5:]
	}
	for _, tc := range times {
		if !timecodePattern.MatchString(tc) {
			return Event{}, fmt.Errorf("invalid timecode %q", tc)
		}
	}
	event.SourceIn, event.SourceOut = times[0], times[1]
	event.RecordIn, event.RecordOut = times[2], times[3]
	return event, nil
}

func attachComment(event *Event, comment string) {
	event.Comments = append(event.Comments, comment)
	key, value, ok := strings.Cut(comment, ":")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "FROM CLIP NAME":
		event.ClipName = value
	case "SOURCE FILE", "FROM FILE":
		event.SourceFile = value
	}
}
