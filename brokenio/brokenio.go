// Package brokenio wraps a reader so that reading goes wrong. It is for
// testing code that reads structures from files, pipes and servers.
//
// A Reader can fail for good after some number of bytes, give back
// nothing at all on the first read (as one sees with a zero length
// file), or now and then wipe out the tail of what it read.
package brokenio

import (
	"fmt"
	"io"
	"math/rand"
)

type Error string

func (e Error) Error() string { return string(e) }

// ErrBroken is returned once a Reader has been told to fail.
const ErrBroken = Error("brokenio: broken read")

// Reader wraps an io.ReadCloser.
type Reader struct {
	orig     io.ReadCloser
	rnd      *rand.Rand
	failAt   int     // fail once this many bytes went through, < 0 for never
	zeroFile float32 // probability of returning nothing on the first read
	trash    float32 // probability of wiping the second half of a read
	nCalled  int
	nByte    int
}

// NewReader wraps rIn. With no settings, it behaves like rIn. The seed
// makes the random failures repeatable.
func NewReader(rIn io.ReadCloser, seed int64) *Reader {
	return &Reader{orig: rIn, rnd: rand.New(rand.NewSource(seed)), failAt: -1}
}

// FailAfter makes every read after n bytes fail.
func (r *Reader) FailAfter(n int) *Reader { r.failAt = n; return r }

// ZeroFile sets the probability that the first read says EOF.
func (r *Reader) ZeroFile(prob float32) *Reader { r.zeroFile = prob; return r }

// Trash sets the probability that a read has the second half of its
// bytes set to zero.
func (r *Reader) Trash(prob float32) *Reader { r.trash = prob; return r }

// Stats says how often Read was called and how many bytes it gave back.
func (r *Reader) Stats() (nCalled, nByte int) { return r.nCalled, r.nByte }

// trashSlice zeroes the second half of p.
func trashSlice(p []byte) (int, error) {
	nkeep := len(p) / 2
	clear(p[nkeep:])
	return nkeep, fmt.Errorf("%w: wiped out last %d of %d bytes", ErrBroken, len(p)-nkeep, len(p))
}

// Read reads from the wrapped reader, unless it is time to fail.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.nCalled == 1 && r.zeroFile > 0 && r.rnd.Float32() < r.zeroFile {
		return 0, io.EOF
	}
	if r.failAt >= 0 {
		left := r.failAt - r.nByte
		if left <= 0 {
			return 0, fmt.Errorf("%w after %d bytes", ErrBroken, r.nByte)
		}
		p = p[:min(len(p), left)]
	}
	n, err := r.orig.Read(p)
	r.nByte += n
	if n > 1 && r.trash > 0 && r.rnd.Float32() < r.trash {
		return trashSlice(p[:n])
	}
	return n, err
}

// Close closes the wrapped reader.
func (r *Reader) Close() error { return r.orig.Close() }
