package decision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCondition is returned when a condition expression cannot be parsed.
var ErrInvalidCondition = errors.New("invalid condition")

// Condition is a compiled boolean expression over answers.
//
// Grammar, loosest binding first:
//
//	expr  := and { ("||" | "v") and }
//	and   := atom { ("&&" | "^") atom }
//	atom  := ["!"] var | var op literal
//	op    := ">" | ">=" | "<" | "<=" | "==" | "===" | "!=" | "!=="
//
// Literals are numbers, true, false, or text in single or double quotes.
// An unanswered variable makes every comparison false.
type Condition struct {
	src string
	any [][]atom // OR of ANDs
}

type operator string

const (
	opTruthy operator = ""
	opFalsy  operator = "!"
	opGT     operator = ">"
	opGE     operator = ">="
	opLT     operator = "<"
	opLE     operator = "<="
	opEQ     operator = "=="
	opNE     operator = "!="
)

// Longest first so ">=" is not read as ">".
var operators = []struct {
	token string
	op    operator
}{
	{"===", opEQ},
	{"!==", opNE},
	{">=", opGE},
	{"<=", opLE},
	{"==", opEQ},
	{"!=", opNE},
	{">", opGT},
	{"<", opLT},
}

type atom struct {
	variable string
	op       operator
	literal  any // float64, bool or string
}

// ParseCondition compiles src. An empty expression always holds.
func ParseCondition(src string) (*Condition, error) {
	c := &Condition{src: strings.TrimSpace(src)}
	if c.src == "" {
		return c, nil
	}
	for _, disjunct := range splitAny(c.src, " || ", " v ") {
		var conj []atom
		for _, part := range splitAny(disjunct, " && ", " ^ ") {
			a, err := parseAtom(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidCondition, src, err)
			}
			conj = append(conj, a)
		}
		c.any = append(c.any, conj)
	}
	return c, nil
}

// MustParseCondition is like ParseCondition but panics on error.
func MustParseCondition(src string) *Condition {
	c, err := ParseCondition(src)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the source expression.
func (c *Condition) String() string {
	return c.src
}

// Variables lists the variables the expression reads, in order of appearance.
func (c *Condition) Variables() []string {
	var out []string
	seen := make(map[string]bool)
	for _, conj := range c.any {
		for _, a := range conj {
			if !seen[a.variable] {
				seen[a.variable] = true
				out = append(out, a.variable)
			}
		}
	}
	return out
}

// Eval reports whether the expression holds for answers.
func (c *Condition) Eval(answers map[string]any) bool {
	if c == nil || len(c.any) == 0 {
		return true
	}
	for _, conj := range c.any {
		ok := true
		for _, a := range conj {
			if !a.eval(answers) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (a atom) eval(answers map[string]any) bool {
	v, present := answers[a.variable]
	switch a.op {
	case opTruthy:
		return present && truthy(v)
	case opFalsy:
		return !present || !truthy(v)
	}
	if !present || v == nil {
		return false
	}

	switch lit := a.literal.(type) {
	case float64:
		n, ok := toFloat(v)
		if !ok {
			return false
		}
		switch a.op {
		case opGT:
			return n > lit
		case opGE:
			return n >= lit
		case opLT:
			return n < lit
		case opLE:
			return n <= lit
		case opEQ:
			return n == lit
		case opNE:
			return n != lit
		}
	case bool:
		b, ok := toBool(v)
		if !ok {
			return false
		}
		if a.op == opEQ {
			return b == lit
		}
		return b != lit
	case string:
		s := fmt.Sprint(v)
		if a.op == opEQ {
			return s == lit
		}
		return s != lit
	}
	return false
}

func parseAtom(s string) (atom, error) {
	if s == "" {
		return atom{}, errors.New("empty term")
	}
	for _, o := range operators {
		idx := strings.Index(s, o.token)
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(s[:idx])
		if !isIdentifier(name) {
			return atom{}, fmt.Errorf("bad variable %q", name)
		}
		lit, err := parseLiteral(strings.TrimSpace(s[idx+len(o.token):]))
		if err != nil {
			return atom{}, err
		}
		if _, isNum := lit.(float64); !isNum {
			switch o.op {
			case opGT, opGE, opLT, opLE:
				return atom{}, fmt.Errorf("operator %s needs a number", o.token)
			}
		}
		return atom{variable: name, op: o.op, literal: lit}, nil
	}

	op := opTruthy
	if rest, ok := strings.CutPrefix(s, "!"); ok {
		op = opFalsy
		s = strings.TrimSpace(rest)
	}
	if !isIdentifier(s) {
		return atom{}, fmt.Errorf("bad variable %q", s)
	}
	return atom{variable: s, op: op}, nil
}

func parseLiteral(s string) (any, error) {
	switch {
	case s == "":
		return nil, errors.New("missing literal")
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0]:
		return s[1 : len(s)-1], nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("bad literal %q", s)
	}
	return n, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func splitAny(s string, seps ...string) []string {
	for _, sep := range seps[1:] {
		s = strings.ReplaceAll(s, sep, seps[0])
	}
	return strings.Split(s, seps[0])
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "no", "0", "none":
			return false
		}
		return true
	}
	if n, ok := toFloat(v); ok {
		return n != 0
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return n, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch x {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
