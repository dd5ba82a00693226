package translate

import (
	"strings"
	"testing"
)

func TestChunk_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
	}{
		{"empty", "", 10},
		{"single chunk", "hello", 10},
		{"exact boundary", "abcdefghij", 5},
		{"uneven split", "abcdefghijk", 4},
		{"size one", "abc", 1},
		{"multibyte tamil", "சொத்து விற்பனை ஆவணம் பதிவு செய்யப்பட்டது", 7},
		{"large text default size", strings.Repeat("x", 40000), DefaultChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(tt.text, tt.size)
			if strings.Join(chunks, "") != tt.text {
				t.Errorf("concatenated chunks do not reproduce input")
			}
			for i, c := range chunks {
				if n := len([]rune(c)); n > tt.size {
					t.Errorf("chunk %d has %d chars, exceeds size %d", i, n, tt.size)
				}
			}
		})
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	if got := Chunk("", 100); len(got) != 0 {
		t.Errorf("Chunk(\"\") = %v, want empty", got)
	}
}

func TestChunk_Count(t *testing.T) {
	tests := []struct {
		length int
		size   int
		want   int
	}{
		{100, 100, 1},
		{101, 100, 2},
		{15000, DefaultChunkSize, 1},
		{15001, DefaultChunkSize, 2},
		{45000, DefaultChunkSize, 3},
	}

	for _, tt := range tests {
		got := Chunk(strings.Repeat("a", tt.length), tt.size)
		if len(got) != tt.want {
			t.Errorf("Chunk(len %d, size %d) produced %d chunks, want %d", tt.length, tt.size, len(got), tt.want)
		}
	}
}
