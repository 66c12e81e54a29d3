package contact

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/scanner"
)

// Parser turns expressions like "ca & cbx | !ion" into criteria.
// Operators, from tightest binding, are ! & ^ |, and parentheses group.
// Leaves are
//
//	rc ca cbx ion ring  the distance criteria
//	cacbx               ca & cbx
//	default             cacbx | (ion | ring)
//	all                 everything is in contact
//
// A leaf can carry its own threshold and margin, as in ca(7,0.5). The
// ring leaf takes an optional third number, the largest angle between
// ring planes in degrees.
type Parser struct {
	Cutoffs      map[string]Cutoff // defaults for leaves by name
	RingMaxAngle float32           // degrees, zero for no check
}

// Parse uses the built in cutoffs.
func Parse(expr string) (Criterion, error) { return (&Parser{}).Parse(expr) }

// Default is what we use if nobody says otherwise. Residues are
// judged by CA and CBX distance, and anything else by ion or ring
// contacts.
func Default() Criterion {
	c, err := (&Parser{}).leaf("default", nil)
	if err != nil {
		panic(err)
	}
	return c
}

type parseState struct {
	p   *Parser
	sc  scanner.Scanner
	tok rune
	err error
}

// Parse reads a whole expression.
func (p *Parser) Parse(expr string) (Criterion, error) {
	ps := &parseState{p: p}
	ps.sc.Init(strings.NewReader(expr))
	ps.sc.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanInts
	ps.sc.Error = func(s *scanner.Scanner, msg string) { ps.fail(msg) }
	ps.next()
	c := ps.binary(0)
	if ps.err == nil && ps.tok != scanner.EOF {
		ps.fail("unexpected " + ps.sc.TokenText())
	}
	if ps.err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfiguration, expr, ps.err)
	}
	return c, nil
}

func (ps *parseState) next() { ps.tok = ps.sc.Scan() }

func (ps *parseState) fail(msg string) {
	if ps.err == nil {
		ps.err = fmt.Errorf("%s at column %d", msg, ps.sc.Position.Column)
	}
}

// operators from loosest to tightest binding.
var operators = []struct {
	tok  rune
	join func(...Criterion) (Criterion, error)
}{
	{'|', func(c ...Criterion) (Criterion, error) { return Or(c...) }},
	{'^', func(c ...Criterion) (Criterion, error) { return Xor(c...) }},
	{'&', func(c ...Criterion) (Criterion, error) { return And(c...) }},
}

// binary reads a run of operands joined by the operator at level. A
// chain like a | b | c becomes a single combination of three.
func (ps *parseState) binary(level int) Criterion {
	if level == len(operators) {
		return ps.unary()
	}
	op := operators[level]
	crits := []Criterion{ps.binary(level + 1)}
	for ps.err == nil && ps.tok == op.tok {
		ps.next()
		crits = append(crits, ps.binary(level+1))
	}
	if ps.err != nil {
		return nil
	}
	if len(crits) == 1 {
		return crits[0]
	}
	c, err := op.join(crits...)
	if err != nil {
		ps.fail(err.Error())
	}
	return c
}

func (ps *parseState) unary() Criterion {
	switch ps.tok {
	case '!':
		ps.next()
		c := ps.unary()
		if ps.err != nil {
			return nil
		}
		return Not(c)
	case '(':
		ps.next()
		c := ps.binary(0)
		ps.expect(')')
		return c
	case scanner.Ident:
		name := strings.ToLower(ps.sc.TokenText())
		ps.next()
		var args []float32
		if ps.tok == '(' {
			args = ps.numbers()
		}
		if ps.err != nil {
			return nil
		}
		c, err := ps.p.leaf(name, args)
		if err != nil {
			ps.fail(err.Error())
		}
		return c
	case scanner.EOF:
		ps.fail("unexpected end")
	default:
		ps.fail("unexpected " + ps.sc.TokenText())
	}
	return nil
}

func (ps *parseState) expect(tok rune) {
	if ps.err == nil && ps.tok != tok {
		ps.fail(fmt.Sprintf("want %q, got %q", tok, ps.sc.TokenText()))
	}
	ps.next()
}

// numbers reads (x, y, ...)
func (ps *parseState) numbers() []float32 {
	var ret []float32
	ps.expect('(')
	for ps.err == nil {
		if ps.tok != scanner.Int && ps.tok != scanner.Float {
			ps.fail("want a number, got " + ps.sc.TokenText())
			break
		}
		x, err := strconv.ParseFloat(ps.sc.TokenText(), 32)
		if err != nil {
			ps.fail(err.Error())
			break
		}
		ret = append(ret, float32(x))
		ps.next()
		if ps.tok != ',' {
			break
		}
		ps.next()
	}
	ps.expect(')')
	return ret
}

// leaf builds a named criterion. args, if given, are threshold, margin
// and, for rings, the angle.
func (p *Parser) leaf(name string, args []float32) (Criterion, error) {
	cut := func(def Cutoff) (Cutoff, error) {
		if c, ok := p.Cutoffs[name]; ok {
			def = c
		}
		switch len(args) {
		case 0:
		case 2, 3:
			def = Cutoff{args[0], args[1]}
		default:
			return def, fmt.Errorf("%s wants threshold and margin, got %d numbers", name, len(args))
		}
		if len(args) == 3 && name != "ring" {
			return def, fmt.Errorf("only ring takes an angle")
		}
		if def.Margin < 0 || def.Threshold < def.Margin {
			return def, fmt.Errorf("%s: margin %g does not fit threshold %g", name, def.Margin, def.Threshold)
		}
		return def, nil
	}
	var err error
	switch name {
	case "rc":
		c := NewRCDistance()
		c.Cutoff, err = cut(c.Cutoff)
		return c, err
	case "ca":
		c := NewCaDistance()
		c.Cutoff, err = cut(c.Cutoff)
		return c, err
	case "cbx":
		c := NewCbxDistance()
		c.Cutoff, err = cut(c.Cutoff)
		return c, err
	case "ion":
		c := NewIonContact()
		c.Cutoff, err = cut(c.Cutoff)
		return c, err
	case "ring":
		c := NewRingCenterContact()
		if c.Cutoff, err = cut(c.Cutoff); err != nil {
			return nil, err
		}
		deg := p.RingMaxAngle
		if len(args) == 3 {
			deg = args[2]
		}
		c.MaxAngle = deg * math.Pi / 180
		return c, nil
	case "all":
		if len(args) != 0 {
			return nil, fmt.Errorf("all takes no numbers")
		}
		return &Always{}, nil
	}
	if len(args) != 0 {
		return nil, fmt.Errorf("%s takes no numbers", name)
	}
	switch name {
	case "cacbx":
		sub, err := p.leaves("ca", "cbx")
		if err != nil {
			return nil, err
		}
		return And(sub...)
	case "default":
		sub, err := p.leaves("cacbx", "ion", "ring")
		if err != nil {
			return nil, err
		}
		rest, err := Or(sub[1:]...)
		if err != nil {
			return nil, err
		}
		return Or(sub[0], rest)
	}
	return nil, fmt.Errorf("unknown criterion %q", name)
}

func (p *Parser) leaves(names ...string) ([]Criterion, error) {
	ret := make([]Criterion, len(names))
	for i, n := range names {
		c, err := p.leaf(n, nil)
		if err != nil {
			return nil, err
		}
		ret[i] = c
	}
	return ret, nil
}
