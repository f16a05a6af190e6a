package protocol

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/freeeve/middle-ages/pkg/middleages"
)

// mockEngineSource answers INIT with one move and END_TURN, echoes
// END_TURN afterwards and exits 1 when stdin closes.
const mockEngineSource = `package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "INIT "):
			fmt.Println("MOVE 4 1 5 2")
			fmt.Println("END_TURN")
		case line == "END_TURN":
			fmt.Println("END_TURN")
		case line == "EXIT":
			os.Exit(0)
		}
	}
	os.Exit(1)
}
`

// mockGarbageEngineSource prints a malformed line.
const mockGarbageEngineSource = `package main

import (
	"fmt"
	"time"
)

func main() {
	fmt.Println("MOVE  1 1 1 2")
	time.Sleep(time.Hour)
}
`

// mockSilentEngineSource never writes anything and ignores stdin EOF.
const mockSilentEngineSource = `package main

import "time"

func main() {
	time.Sleep(time.Hour)
}
`

// buildMockEngine compiles a Go source string into a temporary binary.
func buildMockEngine(t *testing.T, source string) string {
	t.Helper()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "main.go")
	if err := os.WriteFile(srcPath, []byte(source), 0644); err != nil {
		t.Fatalf("write mock engine source: %v", err)
	}

	ext := ""
	if runtime.GOOS == "windows" {
		ext = ".exe"
	}
	binPath := filepath.Join(dir, "mock_engine"+ext)

	cmd := exec.Command("go", "build", "-o", binPath, srcPath)
	cmd.Env = append(os.Environ(), "GOOS="+runtime.GOOS, "GOARCH="+runtime.GOARCH)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build mock engine: %v\n%s", err, out)
	}
	return binPath
}

func TestEngine_Exchange(t *testing.T) {
	bin := buildMockEngine(t, mockEngineSource)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eng := NewEngine(bin)
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer eng.Close(time.Second)

	setup := middleages.Setup{BoardSize: 12, Rounds: 5, Controlled: 1, King1: middleages.Point{X: 1, Y: 1}, King2: middleages.Point{X: 9, Y: 9}}
	if err := eng.Send(Init(setup)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	c, err := eng.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if c.String() != "MOVE 4 1 5 2" {
		t.Errorf("first reply = %q, want %q", c, "MOVE 4 1 5 2")
	}
	c, err = eng.Next(ctx)
	if err != nil || c.Name != NameEndTurn {
		t.Fatalf("second reply = (%v, %v), want END_TURN", c, err)
	}

	if err := eng.Send(EndTurn()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if c, err = eng.Next(ctx); err != nil || c.Name != NameEndTurn {
		t.Fatalf("echo = (%v, %v), want END_TURN", c, err)
	}
}

func TestEngine_CloseReportsExitStatus(t *testing.T) {
	bin := buildMockEngine(t, mockEngineSource)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eng := NewEngine(bin)
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if status := eng.Close(5 * time.Second); status != 1 {
		t.Errorf("exit status after stdin EOF = %d, want 1", status)
	}
	if err := eng.Send(EndTurn()); err == nil {
		t.Error("Send after Close should fail")
	}
}

func TestEngine_NextAfterExit(t *testing.T) {
	bin := buildMockEngine(t, mockEngineSource)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eng := NewEngine(bin)
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer eng.Close(time.Second)

	if err := eng.Send(Command{Name: "EXIT"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	<-eng.Exited()
	if _, err := eng.Next(ctx); !errors.Is(err, ErrEngineExited) {
		t.Errorf("Next after exit = %v, want ErrEngineExited", err)
	}
	if eng.ExitStatus() != 0 {
		t.Errorf("ExitStatus() = %d, want 0", eng.ExitStatus())
	}
}

func TestEngine_MalformedOutput(t *testing.T) {
	bin := buildMockEngine(t, mockGarbageEngineSource)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eng := NewEngine(bin)
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer eng.Close(100 * time.Millisecond)

	_, err := eng.Next(ctx)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("Next = %v, want a *SyntaxError", err)
	}
}

func TestEngine_NextTimeout(t *testing.T) {
	bin := buildMockEngine(t, mockSilentEngineSource)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eng := NewEngine(bin)
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	short, cancelShort := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancelShort()
	if _, err := eng.Next(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next = %v, want deadline exceeded", err)
	}

	start := time.Now()
	if status := eng.Close(200 * time.Millisecond); status != -1 {
		t.Errorf("killed engine status = %d, want -1", status)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Close should kill an engine that ignores stdin EOF")
	}
}

func TestEngine_StartMissingBinary(t *testing.T) {
	eng := NewEngine(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := eng.Start(context.Background()); err == nil {
		t.Fatal("expected an error starting a missing binary")
	}
	if eng.ExitStatus() != -1 {
		t.Errorf("ExitStatus() = %d, want -1", eng.ExitStatus())
	}
}
