package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/tcp-chat/internal/chat"
	"github.com/atomicstack/tcp-chat/internal/conn"
)

func TestViewShowsAddressStatusAndPrompt(t *testing.T) {
	h := newTestHarness(&fakeConnection{}, Options{Address: "127.0.0.1:8080", ShowFooter: true})
	view := h.View()
	for _, want := range []string{"127.0.0.1:8080", "disconnected", inputPrompt, "/help commands"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestViewOmitsFooterByDefault(t *testing.T) {
	h := newTestHarness(&fakeConnection{}, Options{})
	if strings.Contains(h.View(), footerText) {
		t.Fatalf("footer rendered without ShowFooter")
	}
}

func TestViewFillsConfiguredHeight(t *testing.T) {
	h := newTestHarness(&fakeConnection{}, Options{Width: 40, Height: 10})
	rows := strings.Split(h.View(), "\n")
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
}

func TestViewFollowsNewestLine(t *testing.T) {
	c := &fakeConnection{state: conn.StateConnected}
	h := newTestHarness(c, Options{Width: 40, Height: 8})
	for i := 0; i < 20; i++ {
		h.Send(connEventMsg{event: conn.Event{Kind: conn.EventInbound, Text: "filler"}})
	}
	h.Send(connEventMsg{event: conn.Event{Kind: conn.EventInbound, Text: "newest"}})
	if !strings.Contains(h.View(), "newest") {
		t.Fatalf("expected newest line to be visible:\n%s", h.View())
	}
}

func TestRenderLineWrapsToWidth(t *testing.T) {
	line := renderLine(chat.Line{Kind: chat.LineInbound, Text: "aaaa bbbb cccc"}, 9)
	if !strings.Contains(line, "\n") {
		t.Fatalf("expected wrapped output, got %q", line)
	}
}
