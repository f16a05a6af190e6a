// Package protocol implements the line-based text protocol spoken by
// Middle Ages engines: parsing incoming commands, printing outgoing ones and
// driving an engine subprocess over its stdin/stdout.
package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/freeeve/middle-ages/pkg/middleages"
)

// Name is a protocol command name.
type Name string

const (
	NameInit           Name = "INIT"
	NameMove           Name = "MOVE"
	NameProduceKnight  Name = "PRODUCE_KNIGHT"
	NameProducePeasant Name = "PRODUCE_PEASANT"
	NameEndTurn        Name = "END_TURN"
)

const (
	// MaxLineLength bounds a command line, including its newline.
	MaxLineLength = 100
	// MaxNameLength bounds the command name.
	MaxNameLength = 15
)

// arity is the number of integer arguments each command takes.
var arity = map[Name]int{
	NameInit:           7,
	NameMove:           4,
	NameProduceKnight:  4,
	NameProducePeasant: 4,
	NameEndTurn:        0,
}

// Command is one parsed protocol line.
type Command struct {
	Name Name
	Args []int
}

// Init builds an INIT command for the given setup.
func Init(s middleages.Setup) Command {
	return Command{Name: NameInit, Args: []int{
		s.BoardSize, s.Rounds, int(s.Controlled),
		s.King1.X, s.King1.Y, s.King2.X, s.King2.Y,
	}}
}

// Move builds a MOVE command.
func Move(from, to middleages.Point) Command {
	return Command{Name: NameMove, Args: []int{from.X, from.Y, to.X, to.Y}}
}

// ProduceKnight builds a PRODUCE_KNIGHT command.
func ProduceKnight(from, to middleages.Point) Command {
	return Command{Name: NameProduceKnight, Args: []int{from.X, from.Y, to.X, to.Y}}
}

// ProducePeasant builds a PRODUCE_PEASANT command.
func ProducePeasant(from, to middleages.Point) Command {
	return Command{Name: NameProducePeasant, Args: []int{from.X, from.Y, to.X, to.Y}}
}

// EndTurn builds an END_TURN command.
func EndTurn() Command {
	return Command{Name: NameEndTurn}
}

// Setup interprets an INIT command's arguments.
func (c Command) Setup() middleages.Setup {
	a := c.argsOrZero(7)
	return middleages.Setup{
		BoardSize:  a[0],
		Rounds:     a[1],
		Controlled: middleages.Player(a[2]),
		King1:      middleages.Point{X: a[3], Y: a[4]},
		King2:      middleages.Point{X: a[5], Y: a[6]},
	}
}

// Points interprets the source and destination of a MOVE or PRODUCE_*
// command.
func (c Command) Points() (from, to middleages.Point) {
	a := c.argsOrZero(4)
	return middleages.Point{X: a[0], Y: a[1]}, middleages.Point{X: a[2], Y: a[3]}
}

func (c Command) argsOrZero(n int) []int {
	if len(c.Args) >= n {
		return c.Args
	}
	out := make([]int, n)
	copy(out, c.Args)
	return out
}

// String formats the command as a protocol line without the newline.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Name)
	}
	var b strings.Builder
	b.WriteString(string(c.Name))
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// SyntaxError describes a malformed protocol line.
type SyntaxError struct {
	Line    string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed command %q: %s", e.Line, e.Message)
}

// Unwrap makes malformed input count as an invalid command.
func (e *SyntaxError) Unwrap() error {
	return middleages.ErrInvalidCommand
}

// Parse parses a single line without its trailing newline. Tokens must be
// separated by exactly one space, the name must start with a letter and
// every argument must be a positive 32-bit integer.
func Parse(line string) (Command, error) {
	bad := func(format string, args ...any) (Command, error) {
		return Command{}, &SyntaxError{Line: line, Message: fmt.Sprintf(format, args...)}
	}

	if len(line)+1 > MaxLineLength {
		return bad("longer than %d bytes", MaxLineLength-1)
	}
	if line == "" || !isLetter(line[0]) {
		return bad("must start with a letter")
	}
	for i := 0; i < len(line); i++ {
		if isSpace(line[i]) && line[i] != ' ' {
			return bad("whitespace other than a single space")
		}
	}

	tokens := strings.Split(line, " ")
	name := Name(tokens[0])
	if len(name) > MaxNameLength {
		return bad("command name longer than %d characters", MaxNameLength)
	}

	args := tokens[1:]
	for _, tok := range args {
		if tok == "" {
			return bad("tokens must be separated by exactly one space")
		}
		if !allDigits(tok) {
			return bad("argument %q is not a number", tok)
		}
	}

	want, ok := arity[name]
	if !ok {
		return bad("unknown command %s", name)
	}
	if len(args) != want {
		return bad("%s takes %d arguments, got %d", name, want, len(args))
	}

	c := Command{Name: name}
	if want > 0 {
		c.Args = make([]int, 0, want)
	}
	for _, tok := range args {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || v > math.MaxInt32 {
			return bad("argument %s out of range", tok)
		}
		if v <= 0 {
			return bad("argument %s must be positive", tok)
		}
		c.Args = append(c.Args, int(v))
	}
	return c, nil
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
