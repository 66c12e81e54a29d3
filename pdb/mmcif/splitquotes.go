package mmcif

import (
	"errors"
)

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
_ (underscore) identifies data name
#              identifies comment
'              delimits non-simple data values
"              delimits non-simple data values
; at beginning of line of text delimits non-simple data values
data_          identifies data block header (case-insensitive)
*/

var errQuote = errors.New("unterminated quote")

func iswhite(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

func isquote(b byte) bool { return b == '\'' || b == '"' }

type sInfo struct { // state of the splitter
	err    error
	ret    [][]byte
	byteIn []byte
	start  int  // where the current word starts
	qtype  byte // which quote opened the word
}

type sfn func(i int, c byte, s *sInfo) sfn // state function

func sfnWhite(i int, c byte, s *sInfo) sfn {
	switch {
	case iswhite(c):
		return sfnWhite
	case isquote(c):
		s.qtype, s.start = c, i+1
		return sfnInQuote
	}
	s.start = i
	return sfnInText
}

func sfnInText(i int, c byte, s *sInfo) sfn {
	if iswhite(c) {
		s.ret = append(s.ret, s.byteIn[s.start:i])
		return sfnWhite
	}
	return sfnInText
}

func sfnInQuote(i int, c byte, s *sInfo) sfn {
	switch {
	case i == len(s.byteIn):
		s.err = errQuote
		return sfnWhite
	case c == s.qtype:
		return sfnExitQuote
	}
	return sfnInQuote
}

// sfnExitQuote has seen a closing quote. Only white space after it ends
// the word.
func sfnExitQuote(i int, c byte, s *sInfo) sfn {
	if iswhite(c) {
		s.ret = append(s.ret, s.byteIn[s.start:i-1])
		return sfnWhite
	}
	return sfnInQuote(i, c, s)
}

// splitCifLine breaks a line into words separated by white space. Quoted
// words lose their quotes. ret is reused to save allocations.
func splitCifLine(byteIn []byte, ret [][]byte) ([][]byte, error) {
	s := sInfo{ret: ret[:0], byteIn: byteIn}
	state := sfnWhite
	for i, c := range byteIn {
		state = state(i, c, &s)
	}
	state(len(byteIn), '\n', &s) // a final white space flushes the last word
	if s.err != nil {
		return nil, s.err
	}
	return s.ret, nil
}
