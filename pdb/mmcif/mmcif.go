package mmcif

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/andrew-torda/cmap/geom"
	"github.com/andrew-torda/cmap/structure"
)

const maxMsgLen = 70

// readError saves the line number and the line we were trying to read.
type readError struct {
	n      int
	inline string
	desc   string
	err    error
}

func (e *readError) Unwrap() error { return e.err }

func (e *readError) Error() string {
	if e.n == 0 {
		return e.desc
	}
	return "Line: " + strconv.Itoa(e.n) + " " + e.desc + "\nLine starting with\n" + e.inline[:min(len(e.inline), maxMsgLen)]
}

// cmmtScanner wraps bufio.Scanner. It jumps over blank lines and lines
// starting with a comment character and counts lines for error messages.
type cmmtScanner struct {
	*bufio.Scanner
	ctoken []byte
	n      int
	cmmt   byte
}

func newCmmtScanner(r io.Reader, cmmt byte) *cmmtScanner {
	return &cmmtScanner{Scanner: bufio.NewScanner(r), cmmt: cmmt}
}

// cscan moves to the next interesting line. It is false at the end of
// input or on error.
func (s *cmmtScanner) cscan() bool {
	for s.Scan() {
		s.n++
		b := bytes.TrimSpace(s.Bytes())
		if len(b) == 0 || b[0] == s.cmmt {
			continue
		}
		s.ctoken = b
		return true
	}
	s.ctoken = nil
	return false
}

// cbytes is the current line.
func (s *cmmtScanner) cbytes() []byte { return s.ctoken }

// atom site columns we use. auth names win over label names.
const (
	colAtom = iota
	colAlt
	colComp
	colChain
	colSeq
	colICode
	colX
	colY
	colZ
	colElement
	colModel
	nCol
)

var colNames = map[string]int{
	"auth_atom_id":       colAtom,
	"auth_comp_id":       colComp,
	"auth_asym_id":       colChain,
	"auth_seq_id":        colSeq,
	"label_alt_id":       colAlt,
	"pdbx_PDB_ins_code":  colICode,
	"Cartn_x":            colX,
	"Cartn_y":            colY,
	"Cartn_z":            colZ,
	"type_symbol":        colElement,
	"pdbx_PDB_model_num": colModel,
}

// fallback columns, used if the auth version is missing
var labelNames = map[string]int{
	"label_atom_id": colAtom,
	"label_comp_id": colComp,
	"label_asym_id": colChain,
	"label_seq_id":  colSeq,
}

var required = []int{colAtom, colComp, colChain, colSeq, colX, colY, colZ}

const atomSite = "_atom_site."

// reader holds the state of the state functions.
type reader struct {
	*cmmtScanner
	headers [][]byte
	pos     [nCol]int // column of each field, -1 if absent
	words   [][]byte  // values not yet used
	scratch [][]byte
	b       structure.Builder
	model   string
	nBlock  int
	err     error
}

// fail records an error at the current line.
func (r *reader) fail(desc string, err error) stateFn {
	r.err = &readError{r.n, string(r.cbytes()), desc, err}
	return nil
}

// stateFn is the type of state function. It returns the next state.
type stateFn func(*reader) stateFn

// stateTop looks at the start of a line to decide what comes next.
func stateTop(r *reader) stateFn {
	line := r.cbytes()
	if line == nil {
		return nil
	}
	switch {
	case hasPrefixFold(line, "data_"):
		if r.nBlock++; r.nBlock > 1 { // one structure per file
			return nil
		}
		return next(r, stateTop)
	case hasPrefixFold(line, "loop_"):
		return next(r, stateLoopHdr)
	case line[0] == '_':
		return stateDItem
	case line[0] == ';':
		return stateText(r, stateTop)
	}
	return r.fail("unexpected line", nil)
}

// next reads a line and goes to state fn.
func next(r *reader, fn stateFn) stateFn {
	if !r.cscan() {
		return nil
	}
	return fn
}

// stateText jumps over a text field, from a line starting with ";" to
// the next such line, and then carries on with fn.
func stateText(r *reader, fn stateFn) stateFn {
	for r.cscan() {
		if r.cbytes()[0] == ';' {
			return next(r, fn)
		}
	}
	return r.fail("unterminated text field", nil)
}

// stateDItem skips a data item, which is a name and a value. The value
// may be on the next line.
func stateDItem(r *reader) stateFn {
	words, err := splitCifLine(r.cbytes(), r.scratch)
	if err != nil {
		return r.fail(err.Error(), err)
	}
	if len(words) > 1 {
		return next(r, stateTop)
	}
	if !r.cscan() {
		return r.fail("data item without a value", nil)
	}
	if r.cbytes()[0] == ';' {
		return stateText(r, stateTop)
	}
	return next(r, stateTop)
}

// stateLoopHdr collects the column names of a table and decides if it
// is the one we want.
func stateLoopHdr(r *reader) stateFn {
	r.headers = r.headers[:0]
	for line := r.cbytes(); line != nil && line[0] == '_'; line = r.cbytes() {
		r.headers = append(r.headers, bytes.Clone(bytes.Fields(line)[0]))
		if !r.cscan() {
			break
		}
	}
	if len(r.headers) == 0 {
		return r.fail("loop without headers", nil)
	}
	if bytes.HasPrefix(r.headers[0], []byte(atomSite)) {
		if err := r.findColumns(); err != nil {
			return r.fail(err.Error(), err)
		}
		return stateAtomTable
	}
	return stateSkipTable
}

// endOfTable is true for lines that start something new.
func endOfTable(line []byte) bool {
	return line == nil || line[0] == '_' || hasPrefixFold(line, "loop_") || hasPrefixFold(line, "data_")
}

// stateSkipTable jumps over the rows of a table.
func stateSkipTable(r *reader) stateFn {
	for line := r.cbytes(); !endOfTable(line); line = r.cbytes() {
		if line[0] == ';' {
			if fn := stateText(r, stateSkipTable); fn == nil {
				return nil
			}
			continue
		}
		if !r.cscan() {
			return nil
		}
	}
	return stateTop
}

func (r *reader) findColumns() error {
	for i := range r.pos {
		r.pos[i] = -1
	}
	for i, h := range r.headers {
		name := string(h[len(atomSite):])
		if c, ok := colNames[name]; ok {
			r.pos[c] = i
		}
	}
	for i, h := range r.headers {
		name := string(h[len(atomSite):])
		if c, ok := labelNames[name]; ok && r.pos[c] < 0 {
			r.pos[c] = i
		}
	}
	for _, c := range required {
		if r.pos[c] < 0 {
			return fmt.Errorf("atom_site table is missing a column, have %q", r.headers)
		}
	}
	return nil
}

// stateAtomTable reads the atoms. A row may be spread over more than
// one line.
func stateAtomTable(r *reader) stateFn {
	for line := r.cbytes(); !endOfTable(line); line = r.cbytes() {
		words, err := splitCifLine(line, r.scratch)
		if err != nil {
			return r.fail(err.Error(), err)
		}
		for _, w := range words {
			r.words = append(r.words, bytes.Clone(w))
		}
		r.scratch = words
		for len(r.words) >= len(r.headers) {
			if err := r.addAtom(r.words[:len(r.headers)]); err != nil {
				return r.fail(err.Error(), err)
			}
			r.words = r.words[len(r.headers):]
		}
		if !r.cscan() {
			break
		}
	}
	if len(r.words) != 0 {
		return r.fail("atom_site row is incomplete", nil)
	}
	return stateTop
}

// field returns column c of a row, or "" if the column is absent or the
// value is ? or .
func (r *reader) field(row [][]byte, c int) string {
	if r.pos[c] < 0 {
		return ""
	}
	w := row[r.pos[c]]
	if len(w) == 1 && (w[0] == '?' || w[0] == '.') {
		return ""
	}
	return string(w)
}

func (r *reader) addAtom(row [][]byte) error {
	resName := r.field(row, colComp)
	var a structure.Atom
	a.Name = r.field(row, colAtom)
	a.Element = r.field(row, colElement)
	if a.Element == "" && a.Name != "" {
		a.Element = a.Name[:1]
	}
	alt := byte(' ')
	if s := r.field(row, colAlt); s != "" {
		alt = s[0]
	}
	if structure.Skip(resName, a.Element, alt) {
		return nil
	}
	num, err := strconv.Atoi(r.field(row, colSeq))
	if err != nil {
		return errors.New("bad residue number")
	}
	pid := structure.PdbID{Chain: r.field(row, colChain), Num: num}
	if s := r.field(row, colICode); s != "" {
		pid.ICode = s[0]
	}
	var xyz [3]float32
	for i, c := range []int{colX, colY, colZ} {
		f, err := strconv.ParseFloat(r.field(row, c), 32)
		if err != nil {
			return errors.New("bad coordinate")
		}
		xyz[i] = float32(f)
	}
	a.Xyz = geom.Xyz{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	if m := r.field(row, colModel); m != r.model || r.b.NModel() == 0 {
		r.model = m
		if err := r.b.StartModel(); err != nil {
			return err
		}
	}
	return r.b.Add(pid, resName, a)
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && bytes.EqualFold(b[:len(prefix)], []byte(prefix))
}

// Read reads an mmCIF file from r and calls the structure name.
func Read(r io.Reader, name string) (*structure.Structure, error) {
	rdr := &reader{cmmtScanner: newCmmtScanner(r, '#')}
	if rdr.cscan() {
		for state := stateFn(stateTop); state != nil; {
			state = state(rdr)
		}
	}
	if rdr.err != nil {
		return nil, rdr.err
	}
	if err := rdr.Err(); err != nil {
		return nil, err
	}
	if rdr.b.NMer() == 0 {
		return nil, &readError{desc: "no atoms found"}
	}
	return rdr.b.Finish(name)
}
