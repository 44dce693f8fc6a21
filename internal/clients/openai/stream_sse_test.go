package openai

import (
	"errors"
	"strings"
	"testing"
)

type sseEvent struct {
	name string
	data string
}

func collectSSE(t *testing.T, raw string) []sseEvent {
	t.Helper()
	var events []sseEvent
	err := streamSSE(strings.NewReader(raw), func(event, data string) error {
		events = append(events, sseEvent{event, data})
		return nil
	})
	if err != nil {
		t.Fatalf("streamSSE failed: %v", err)
	}
	return events
}

func TestStreamSSE_ParsesEventsAndSkipsComments(t *testing.T) {
	raw := "event: response.output_text.delta\n" +
		"data: {\"delta\": \"Hel\"}\n" +
		"\n" +
		": keepalive\n" +
		"event: response.output_text.delta\n" +
		"data: {\"delta\": \"lo\"}\n" +
		"\n" +
		"data: [DONE]\n" +
		"\n"

	events := collectSSE(t, raw)
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].name != "response.output_text.delta" || events[0].data != `{"delta": "Hel"}` {
		t.Fatalf("events[0] = %+v", events[0])
	}
	if events[2].name != "" || events[2].data != "[DONE]" {
		t.Fatalf("events[2] = %+v", events[2])
	}
}

func TestStreamSSE_JoinsMultiLineData(t *testing.T) {
	raw := "data: first\ndata: second\n\n"
	events := collectSSE(t, raw)
	if len(events) != 1 || events[0].data != "first\nsecond" {
		t.Fatalf("events = %+v, want joined data lines", events)
	}
}

func TestStreamSSE_FlushesTrailingEventAtEOF(t *testing.T) {
	raw := "event: done\ndata: tail"
	events := collectSSE(t, raw)
	if len(events) != 1 || events[0].name != "done" || events[0].data != "tail" {
		t.Fatalf("events = %+v, want trailing event flushed", events)
	}
}

func TestStreamSSE_PropagatesCallbackError(t *testing.T) {
	sentinel := errors.New("stop")
	err := streamSSE(strings.NewReader("data: x\n\n"), func(event, data string) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("streamSSE = %v, want callback error", err)
	}
}
