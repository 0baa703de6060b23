package dagjson

import (
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/codec"
	"github.com/ipld/go-ipld-prime/multicodec"
)

var (
	_ codec.Decoder = Decode
	_ codec.Encoder = Encode
)

// MultiCodecType is the multicodec code this codec is registered under.
var MultiCodecType = uint64(cid.DagJSON)

func init() {
	multicodec.RegisterEncoder(MultiCodecType, Encode)
	multicodec.RegisterDecoder(MultiCodecType, Decode)
}
