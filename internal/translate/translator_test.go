package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// stubGenerator lets tests script per-prompt behavior and observe call order.
type stubGenerator struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt string) (string, error)
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(prompt)
}

// chunkPayload pulls the chunk text back out of a built prompt.
func chunkPayload(prompt string) string {
	idx := strings.LastIndex(prompt, "Text:\n")
	return prompt[idx+len("Text:\n"):]
}

func TestTranslate_EmptyInputNoCalls(t *testing.T) {
	stub := &stubGenerator{fn: func(string) (string, error) { return "x", nil }}
	tr := New(stub, 10, 2, zerolog.Nop())

	got, chunks, err := tr.Translate(context.Background(), "   \n ", "ta")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "" || chunks != 0 {
		t.Errorf("Translate() = (%q, %d), want empty result and zero chunks", got, chunks)
	}
	if stub.calls != 0 {
		t.Errorf("Generate called %d times on empty input, want 0", stub.calls)
	}
}

func TestTranslate_OrderPreservedUnderShuffledCompletion(t *testing.T) {
	// Eight single-char chunks. A barrier releases all calls at once so
	// completion order is up to the scheduler, then each returns a marker
	// derived from its chunk. The joined output must still follow input order.
	text := "abcdefgh"
	barrier := make(chan struct{})
	started := make(chan struct{}, len(text))

	stub := &stubGenerator{fn: func(prompt string) (string, error) {
		started <- struct{}{}
		<-barrier
		return "T(" + chunkPayload(prompt) + ")", nil
	}}
	tr := New(stub, 1, len(text), zerolog.Nop())

	done := make(chan struct{})
	var got string
	var err error
	go func() {
		got, _, err = tr.Translate(context.Background(), text, "en")
		close(done)
	}()

	for i := 0; i < len(text); i++ {
		<-started
	}
	close(barrier)
	<-done

	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := "T(a)\nT(b)\nT(c)\nT(d)\nT(e)\nT(f)\nT(g)\nT(h)"
	if got != want {
		t.Errorf("Translate() = %q, want %q", got, want)
	}
}

func TestTranslate_FailedChunkDegradesToEmpty(t *testing.T) {
	stub := &stubGenerator{fn: func(prompt string) (string, error) {
		if chunkPayload(prompt) == "bb" {
			return "", errors.New("upstream exploded")
		}
		return strings.ToUpper(chunkPayload(prompt)), nil
	}}
	tr := New(stub, 2, 2, zerolog.Nop())

	got, chunks, err := tr.Translate(context.Background(), "aabbcc", "auto")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if chunks != 3 {
		t.Errorf("chunks = %d, want 3", chunks)
	}
	// The failed middle chunk leaves an empty stretch; join + trim keeps
	// the surviving chunks in order.
	want := "AA\n\nCC"
	if got != want {
		t.Errorf("Translate() = %q, want %q", got, want)
	}
}

func TestTranslate_ConcurrencyCap(t *testing.T) {
	var inflight, peak atomic.Int32
	stub := &stubGenerator{fn: func(prompt string) (string, error) {
		cur := inflight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		defer inflight.Add(-1)
		return "ok", nil
	}}

	tr := New(stub, 1, 3, zerolog.Nop())
	if _, _, err := tr.Translate(context.Background(), strings.Repeat("z", 50), "en"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak in-flight = %d, want <= 3", peak.Load())
	}
	if stub.calls != 50 {
		t.Errorf("Generate called %d times, want 50", stub.calls)
	}
}

func TestTranslate_SingleChunkUnderLimit(t *testing.T) {
	stub := &stubGenerator{fn: func(prompt string) (string, error) {
		return "translated", nil
	}}
	tr := New(stub, DefaultChunkSize, DefaultConcurrency, zerolog.Nop())

	got, chunks, err := tr.Translate(context.Background(), "some short document text", "ta")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if chunks != 1 {
		t.Errorf("chunks = %d, want 1 for text under the chunk size", chunks)
	}
	if got != "translated" {
		t.Errorf("Translate() = %q, want %q", got, "translated")
	}
}

func TestBuildPrompt_Variants(t *testing.T) {
	tamil := buildPrompt("ta", "சொத்து")
	if !strings.Contains(tamil, "Tamil legal and property documents") {
		t.Errorf("Tamil prompt missing specialized vocabulary instruction")
	}
	if !strings.Contains(tamil, "சொத்து") {
		t.Errorf("Tamil prompt missing chunk text")
	}

	generic := buildPrompt("auto", "hola")
	if !strings.Contains(generic, "detect it yourself") {
		t.Errorf("auto prompt should ask the model to detect the language")
	}

	hindi := buildPrompt("hi", "नमस्ते")
	if !strings.Contains(hindi, "from hi to English") {
		t.Errorf("generic prompt should name the source language, got:\n%s", hindi)
	}

	for _, p := range []string{tamil, generic, hindi} {
		if !strings.Contains(p, "no commentary") {
			t.Errorf("every prompt variant must forbid commentary")
		}
		if !strings.Contains(p, "Preserve all numbers") {
			t.Errorf("every prompt variant must require preserving numbers")
		}
	}
}
