package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestGameIDContext(t *testing.T) {
	ctx := context.Background()
	if id := GameIDFromContext(ctx); id != "" {
		t.Errorf("empty context has game id %q", id)
	}

	id := NewGameID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewGameID() = %q is not a uuid: %v", id, err)
	}
	if got := GameIDFromContext(WithGameID(ctx, id)); got != id {
		t.Errorf("GameIDFromContext = %q, want %q", got, id)
	}
	if NewGameID() == id {
		t.Error("game ids should not repeat")
	}
}

func TestLogBoard(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogBoard(l, "K.\n.k\n")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("logged %d events, want one per row:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"cells":"K."`) || !strings.Contains(lines[1], `"row":2`) {
		t.Errorf("unexpected events:\n%s", buf.String())
	}

	buf.Reset()
	LogBoard(l.Level(zerolog.InfoLevel), "K.\n.k\n")
	if buf.Len() != 0 {
		t.Errorf("board logged above debug level: %s", buf.String())
	}
}
