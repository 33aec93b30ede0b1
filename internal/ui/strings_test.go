package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Chair", 10, "Chair"},
		{"  Chair  ", 10, "Chair"},
		{"Oak dining chair", 10, "Oak din..."},
		{"Chair", 3, "Cha"},
		{"Chair", 0, "Chair"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddleKeepsFileName(t *testing.T) {
	got := truncateMiddle("/home/user/Pictures/shelf/2026/chair.jpg", 24)
	if want := "/home/user/Pi…/chair.jpg"; got != want {
		t.Fatalf("truncateMiddle = %q, want %q", got, want)
	}
	if n := len([]rune(got)); n != 24 {
		t.Fatalf("truncateMiddle length = %d, want 24", n)
	}
	if got := truncateMiddle("short.jpg", 24); got != "short.jpg" {
		t.Fatalf("truncateMiddle short = %q", got)
	}
}

func TestDisplayRef(t *testing.T) {
	tests := []struct{ in, want string }{
		{"file:///p/a.jpg", "/p/a.jpg"},
		{"a.jpg", "a.jpg"},
		{"https://example.com/a.jpg", "https://example.com/a.jpg"},
	}
	for _, tt := range tests {
		if got := displayRef(tt.in); got != tt.want {
			t.Fatalf("displayRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScrollStart(t *testing.T) {
	tests := []struct{ cursor, total, rows, want int }{
		{0, 5, 10, 0},
		{9, 20, 10, 0},
		{10, 20, 10, 1},
		{19, 20, 10, 10},
	}
	for _, tt := range tests {
		if got := scrollStart(tt.cursor, tt.total, tt.rows); got != tt.want {
			t.Fatalf("scrollStart(%d, %d, %d) = %d, want %d", tt.cursor, tt.total, tt.rows, got, tt.want)
		}
	}
}
