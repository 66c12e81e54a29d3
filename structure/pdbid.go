package structure

import (
	"fmt"
	"strconv"
	"strings"
)

// PdbID is the name a mer has in the PDB file: chain, residue number and
// insertion code. ICode is zero if there is no insertion code.
type PdbID struct {
	Chain string
	Num   int
	ICode byte
}

// String gives the compact form, like A42 or B17B. A missing chain
// is written as "?".
func (p PdbID) String() string {
	chain := p.Chain
	if chain == "" {
		chain = "?"
	}
	s := chain + strconv.Itoa(p.Num)
	if p.ICode != 0 && p.ICode != ' ' {
		s += string(p.ICode)
	}
	return s
}

// ParsePdbID reads the compact form written by String. The chain is
// the first character, then comes a (possibly negative) number and an
// optional insertion code.
func ParsePdbID(s string) (PdbID, error) {
	var p PdbID
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return p, fmt.Errorf("%w: unexpected id string %q", ErrLookupMiss, s)
	}
	p.Chain = s[:1]
	if p.Chain == "?" {
		p.Chain = ""
	}
	rest := s[1:]
	if last := rest[len(rest)-1]; last < '0' || last > '9' {
		p.ICode = last
		rest = rest[:len(rest)-1]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return PdbID{}, fmt.Errorf("%w: unexpected id string %q", ErrLookupMiss, s)
	}
	p.Num = n
	return p, nil
}
