package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed line of the JSON log file. Lines that fail to
// parse keep their raw text and format as-is.
type Entry struct {
	Time  time.Time
	Level string
	Msg   string
	Attrs map[string]any
	Raw   string
}

// maxLineSize bounds a single log line when scanning. Rotation caps
// the file at MaxSizeMB, but one line can still be long.
const maxLineSize = 1 << 20

// Tail returns the last n entries of the log at path. A non-empty
// level keeps only entries at or above that severity; unparseable
// lines are dropped when filtering since they carry no level.
func Tail(path string, n int, level string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	minLevel := LevelFromString(level)
	filtering := level != ""

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry := parseLine(line)
		if filtering {
			if entry.Level == "" || LevelFromString(entry.Level) < minLevel {
				continue
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// parseLine decodes one slog JSON line into an Entry.
func parseLine(line string) Entry {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Entry{Raw: line}
	}

	entry := Entry{Raw: line, Attrs: fields}
	if ts, ok := fields["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Time = t
		}
		delete(fields, "time")
	}
	if lvl, ok := fields["level"].(string); ok {
		entry.Level = lvl
		delete(fields, "level")
	}
	if msg, ok := fields["msg"].(string); ok {
		entry.Msg = msg
		delete(fields, "msg")
	}
	return entry
}

// Format renders an entry as a single console line: timestamp, level,
// message, then the remaining attributes as key=value in key order.
func (e Entry) Format() string {
	if e.Level == "" && e.Msg == "" {
		return e.Raw
	}

	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Format("15:04:05.000"))
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level, e.Msg)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Attrs[k])
	}
	return b.String()
}
