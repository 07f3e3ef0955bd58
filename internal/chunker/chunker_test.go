package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/futig/qagen/internal/entity"
)

func TestCreateChunks_ShortText(t *testing.T) {
	chunks, err := CreateChunks("  hello world \n", 100, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Fatalf("got %q", chunks)
	}
}

func TestCreateChunks_LatestMarkerWins(t *testing.T) {
	// paragraph at 2, sentence at 6, line at 10: the line break is the latest
	text := "ab\n\ncd. ef\ngh ijklmnopqrstuvwxyz"

	chunks, err := CreateChunks(text, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ab\n\ncd. ef", "gh ijklmnopqrstuvwxy", "z"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %q, want %q", len(chunks), chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestCreateChunks_Overlap(t *testing.T) {
	text := "first line\nsecond line\nthird line"

	chunks, err := CreateChunks(text, 15, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %q", chunks)
	}
	if chunks[0] != "first line" {
		t.Errorf("first chunk = %q", chunks[0])
	}
	// the second window starts five characters before the first cut
	if !strings.HasPrefix(chunks[1], "line") {
		t.Errorf("second chunk = %q, want overlap with the first", chunks[1])
	}
}

func TestCreateChunks_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateChunks("some text", tt.size, tt.overlap)
			if !errors.Is(err, entity.ErrInvalidChunkConfig) {
				t.Fatalf("got %v, want ErrInvalidChunkConfig", err)
			}
		})
	}
}

func TestCreateChunks_EmptyAndBlank(t *testing.T) {
	for _, text := range []string{"", "   \n\n  \t"} {
		chunks, err := CreateChunks(text, 10, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Fatalf("text %q produced chunks %q", text, chunks)
		}
	}
}

func TestWalk_CoversText(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 60; i++ {
		fmt.Fprintf(&b, "Sentence number %d is here. ", i)
		if i%5 == 0 {
			b.WriteString("\n\n")
		}
		if i%7 == 0 {
			b.WriteString("\n")
		}
	}
	runes := []rune(b.String())

	configs := []struct{ size, overlap int }{
		{50, 10}, {120, 30}, {500, 50}, {33, 0}, {7, 6}, {1, 0}, {2000, 200},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("size=%d/overlap=%d", cfg.size, cfg.overlap), func(t *testing.T) {
			windows := walk(runes, cfg.size, cfg.overlap)
			if len(windows) == 0 {
				t.Fatal("no windows")
			}
			if windows[0].start != 0 {
				t.Fatalf("first window starts at %d", windows[0].start)
			}
			for i, w := range windows {
				if w.end <= w.start {
					t.Fatalf("window %d is empty: %+v", i, w)
				}
				if w.end-w.start > cfg.size {
					t.Fatalf("window %d longer than chunk size: %+v", i, w)
				}
				if i > 0 {
					prev := windows[i-1]
					if w.start <= prev.start {
						t.Fatalf("window %d does not advance: %+v after %+v", i, w, prev)
					}
					if w.start > prev.end {
						t.Fatalf("gap between windows %d and %d: %+v %+v", i-1, i, prev, w)
					}
				}
			}
			if last := windows[len(windows)-1]; last.end != len(runes) {
				t.Fatalf("last window ends at %d, text has %d runes", last.end, len(runes))
			}

			chunks, err := CreateChunks(string(runes), cfg.size, cfg.overlap)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, chunk := range chunks {
				if strings.TrimSpace(chunk) == "" || chunk != strings.TrimSpace(chunk) {
					t.Fatalf("chunk %d is not trimmed and non-empty: %q", i, chunk)
				}
			}
		})
	}
}

func TestCreateChunks_MultibyteText(t *testing.T) {
	text := strings.Repeat("Привет, мир. Это тест.\n", 20)

	chunks, err := CreateChunks(text, 30, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Fatalf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
		if utf8.RuneCountInString(chunk) > 30 {
			t.Fatalf("chunk %d exceeds window: %q", i, chunk)
		}
	}
}
