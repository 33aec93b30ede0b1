package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/five82/shelf/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Read returns the last maxLines lines of the file at path. maxLines <= 0
// returns every line. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	total := 0
	for scanner.Scan() {
		ring[total%maxLines] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if total <= maxLines {
		return ring[:total], nil
	}
	start := total % maxLines
	return append(ring[start:], ring[:start]...), nil
}

// Entry is one parsed log record.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	// Fields holds the remaining structured fields rendered as key=value,
	// sorted by key.
	Fields []string
	Raw    string
}

// Parse decodes a JSON log line. Lines that are not JSON objects come back
// with only Message and Raw set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		entry.Message = line
		return entry
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		entry.Message = line
		return entry
	}

	entry.Level = stringField(rec, logging.KeyLevel)
	entry.Logger = stringField(rec, logging.KeyLogger)
	entry.Message = stringField(rec, logging.KeyMessage)
	if ts := stringField(rec, logging.KeyTime); ts != "" {
		if parsed, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			entry.Time = parsed
		}
	}
	for _, k := range []string{logging.KeyTime, logging.KeyLevel, logging.KeyLogger, logging.KeyMessage, logging.KeyCaller, "stacktrace"} {
		delete(rec, k)
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Fields = append(entry.Fields, fmt.Sprintf("%s=%v", k, rec[k]))
	}
	return entry
}

// Tail reads and parses the last maxLines records of path.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

func stringField(rec map[string]any, key string) string {
	v, ok := rec[key].(string)
	if !ok {
		return ""
	}
	return v
}
