// Package pdb reads coordinates from files in the old fixed column PDB
// format. Files may be gzipped. If there are several models and they
// all have the same atoms, the first becomes the structure and the
// rest become trajectory frames.
package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/cmap/geom"
	"github.com/andrew-torda/cmap/pdb/mmcif"
	"github.com/andrew-torda/cmap/pdb/zwrap"
	"github.com/andrew-torda/cmap/structure"
)

const maxMsgLen = 70

// readError remembers the line number and the line we were trying
// to read.
type readError struct {
	n      int    // line number
	inline string // the line that provoked the error
	desc   string
	err    error // underlying error, if there is one
}

func (e *readError) Unwrap() error { return e.err }

func firstPart(s string) string { return s[:min(len(s), maxMsgLen)] }

func (e *readError) Error() string {
	if e.n == 0 {
		return e.desc
	}
	return "Line: " + strconv.Itoa(e.n) + " " + e.desc + "\nLine starting with\n" + firstPart(e.inline)
}

// ErrModelMismatch is wrapped when a later model does not have the same
// atoms as the first.
const ErrModelMismatch = structure.ErrModelMismatch

// mmapFile lets us give zwrap a file that has been mapped into memory.
// Close unmaps and closes the file.
type mmapFile struct {
	*bytes.Reader
	mm mmap.MMap
	fp *os.File
}

func (m *mmapFile) Close() error {
	err := m.mm.Unmap()
	if e := m.fp.Close(); err == nil {
		err = e
	}
	return err
}

// ReadFile reads a PDB file, gzipped or not. If logger is not nil, we
// say what was read.
func ReadFile(fname string, logger *log.Logger) (*structure.Structure, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	if fi, err := fp.Stat(); err != nil || !fi.Mode().IsRegular() || fi.Size() == 0 {
		fp.Close()
		return nil, fmt.Errorf("%s: not a readable, non-empty file", fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	rdr, err := zwrap.WrapMaybe(&mmapFile{Reader: bytes.NewReader(mm), mm: mm, fp: fp})
	if err != nil {
		return nil, errors.New("reading " + fname + " " + err.Error())
	}
	defer rdr.Close()
	s, err := readerFor(fname)(rdr, nameFromFile(fname))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if logger != nil {
		logger.Println(fname, s.Len(), "mers", s.NAtom(), "atoms", s.NFrames(), "frames")
	}
	return s, nil
}

// readerFor picks the mmCIF reader for names like 1abc.cif or
// 1abc.cif.gz and the PDB reader for anything else.
func readerFor(fname string) func(io.Reader, string) (*structure.Structure, error) {
	base := strings.ToLower(strings.TrimSuffix(fname, ".gz"))
	if strings.HasSuffix(base, ".cif") || strings.HasSuffix(base, ".mmcif") {
		return mmcif.Read
	}
	return Read
}

// nameFromFile turns a/b/1abc.pdb.gz into 1abc.
func nameFromFile(fname string) string {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	return s
}

// atomLine is what we keep from an ATOM or HETATM record.
type atomLine struct {
	pid     structure.PdbID
	resName string
	atom    structure.Atom
}

// col returns columns [i,j) of a line, trimmed, or "" if the line is short.
func col(line string, i, j int) string {
	if len(line) <= i {
		return ""
	}
	return strings.TrimSpace(line[i:min(j, len(line))])
}

func parseAtom(line string) (atomLine, bool, error) {
	var a atomLine
	if len(line) < 54 {
		return a, false, errors.New("short coordinate line")
	}
	a.resName = col(line, 17, 20)
	a.atom.Name = col(line, 12, 16)
	a.atom.Element = col(line, 76, 78)
	if a.atom.Element == "" {
		if e := strings.TrimLeft(a.atom.Name, "0123456789"); e != "" {
			a.atom.Element = e[:1]
		}
	}
	if structure.Skip(a.resName, a.atom.Element, line[16]) {
		return a, false, nil
	}
	num, err := strconv.Atoi(col(line, 22, 26))
	if err != nil {
		return a, false, errors.New("bad residue number")
	}
	a.pid = structure.PdbID{Chain: col(line, 21, 22), Num: num}
	if ic := line[26]; ic != ' ' {
		a.pid.ICode = ic
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(col(line, 30+8*i, 38+8*i), 32)
		if err != nil {
			return a, false, errors.New("bad coordinate")
		}
		xyz[i] = float32(f)
	}
	a.atom.Xyz = geom.Xyz{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return a, true, nil
}

// Read reads PDB format from r and calls the structure name.
func Read(r io.Reader, name string) (*structure.Structure, error) {
	var b structure.Builder
	scnnr := bufio.NewScanner(r)
lines:
	for n := 1; scnnr.Scan(); n++ {
		line := scnnr.Text()
		var err error
		switch rec := line[:min(len(line), 6)]; rec {
		case "MODEL ":
			err = b.StartModel()
		case "ENDMDL":
			err = b.EndModel()
		case "END", "END   ":
			break lines
		case "ATOM  ", "HETATM":
			a, keep, e := parseAtom(line)
			if e != nil {
				return nil, &readError{n, line, e.Error(), nil}
			}
			if keep {
				err = b.Add(a.pid, a.resName, a.atom)
			}
		}
		if err != nil {
			return nil, &readError{n, line, err.Error(), err}
		}
	}
	if err := scnnr.Err(); err != nil {
		return nil, err
	}
	if b.NMer() == 0 {
		return nil, &readError{desc: "no atoms found"}
	}
	return b.Finish(name)
}
