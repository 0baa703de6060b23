// Package shared holds small helpers used by the codec and its consumers.
package shared

import (
	"github.com/ipfs/go-cid"
)

// RawdataToCid takes the desired codec, multihash type, and a slice of bytes
// and returns the proper cid of the object.
func RawdataToCid(codec uint64, rawdata []byte, mhType uint64) (cid.Cid, error) {
	c, err := cid.Prefix{
		Codec:    codec,
		Version:  1,
		MhType:   mhType,
		MhLength: -1,
	}.Sum(rawdata)
	if err != nil {
		return cid.Cid{}, err
	}
	return c, nil
}

// WriteableByteSlice is an io.Writer that appends onto a caller-owned slice.
type WriteableByteSlice struct {
	byteSlice *[]byte
}

func NewWriteableByteSlice(byteSlice *[]byte) WriteableByteSlice {
	return WriteableByteSlice{byteSlice: byteSlice}
}

func (w WriteableByteSlice) Write(b []byte) (int, error) {
	*w.byteSlice = append(*w.byteSlice, b...)
	return len(b), nil
}
