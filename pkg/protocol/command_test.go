package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/freeeve/middle-ages/pkg/middleages"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"INIT 12 5 1 1 1 9 9", Command{NameInit, []int{12, 5, 1, 1, 1, 9, 9}}},
		{"MOVE 1 2 3 4", Command{NameMove, []int{1, 2, 3, 4}}},
		{"PRODUCE_KNIGHT 5 5 6 6", Command{NameProduceKnight, []int{5, 5, 6, 6}}},
		{"PRODUCE_PEASANT 5 5 6 6", Command{NameProducePeasant, []int{5, 5, 6, 6}}},
		{"END_TURN", Command{Name: NameEndTurn}},
		{"MOVE 2147483647 1 1 1", Command{NameMove, []int{2147483647, 1, 1, 1}}},
		{"MOVE 007 1 1 1", Command{NameMove, []int{7, 1, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if len(got.Args) != len(tt.want.Args) {
				t.Fatalf("Args = %v, want %v", got.Args, tt.want.Args)
			}
			for i := range got.Args {
				if got.Args[i] != tt.want.Args[i] {
					t.Errorf("Args[%d] = %d, want %d", i, got.Args[i], tt.want.Args[i])
				}
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"leading space", " MOVE 1 1 1 2"},
		{"starts with digit", "1MOVE 1 1 1 2"},
		{"double space", "MOVE 1  1 1 2"},
		{"trailing space", "MOVE 1 1 1 2 "},
		{"tab", "MOVE\t1 1 1 2"},
		{"carriage return", "END_TURN\r"},
		{"unknown command", "JUMP 1 1 1 2"},
		{"lower case", "move 1 1 1 2"},
		{"too few args", "MOVE 1 1 1"},
		{"too many args", "MOVE 1 1 1 2 3"},
		{"end turn with args", "END_TURN 1"},
		{"init short", "INIT 12 5 1 1 1 9"},
		{"zero", "MOVE 0 1 1 2"},
		{"negative", "MOVE -1 1 1 2"},
		{"letters in args", "MOVE 1 a 1 2"},
		{"overflow", "MOVE 2147483648 1 1 2"},
		{"huge", "MOVE 99999999999999999999 1 1 2"},
		{"long name", "PRODUCE_PEASANTS 1 1 1 2"},
		{"too long", "MOVE " + strings.Repeat("1", 96)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.line)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Errorf("error %v is not a *SyntaxError", err)
			}
			if !errors.Is(err, middleages.ErrInvalidCommand) {
				t.Errorf("error %v should count as an invalid command", err)
			}
		})
	}
}

func TestCommand_StringRoundTrip(t *testing.T) {
	from, to := middleages.Point{X: 3, Y: 4}, middleages.Point{X: 4, Y: 5}
	tests := []struct {
		cmd  Command
		want string
	}{
		{Move(from, to), "MOVE 3 4 4 5"},
		{ProduceKnight(from, to), "PRODUCE_KNIGHT 3 4 4 5"},
		{ProducePeasant(from, to), "PRODUCE_PEASANT 3 4 4 5"},
		{EndTurn(), "END_TURN"},
		{Init(middleages.Setup{BoardSize: 12, Rounds: 5, Controlled: 2, King1: middleages.Point{X: 1, Y: 1}, King2: middleages.Point{X: 9, Y: 9}}), "INIT 12 5 2 1 1 9 9"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if _, err := Parse(tt.want); err != nil {
			t.Errorf("Parse(%q): %v", tt.want, err)
		}
	}
}

func TestCommand_Accessors(t *testing.T) {
	c, err := Parse("INIT 12 5 2 1 1 9 9")
	if err != nil {
		t.Fatal(err)
	}
	s := c.Setup()
	if s.BoardSize != 12 || s.Rounds != 5 || s.Controlled != middleages.Player2 {
		t.Errorf("Setup() header = %+v", s)
	}
	if s.King1 != (middleages.Point{X: 1, Y: 1}) || s.King2 != (middleages.Point{X: 9, Y: 9}) {
		t.Errorf("Setup() kings = %v %v", s.King1, s.King2)
	}

	from, to := Move(middleages.Point{X: 1, Y: 2}, middleages.Point{X: 2, Y: 3}).Points()
	if from != (middleages.Point{X: 1, Y: 2}) || to != (middleages.Point{X: 2, Y: 3}) {
		t.Errorf("Points() = %v %v", from, to)
	}

	// A short argument list must not panic.
	from, to = Command{Name: NameMove}.Points()
	if from != (middleages.Point{}) || to != (middleages.Point{}) {
		t.Errorf("Points() on empty args = %v %v", from, to)
	}
}
