/*
Package dagjson provides a Go implementation of the IPLD DAG-JSON spec
(https://ipld.io/specs/codecs/dag-json/spec/) for
go-ipld-prime (https://github.com/ipld/go-ipld-prime/).

DAG-JSON is ordinary JSON text (RFC 8259) with two reserved object shapes
layered on top of it:

	{"/": "<cid-text>"}            a link to other content, by CID
	{"/": {"bytes": "<base64>"}}   a raw byte payload

An object is one of the reserved shapes if and only if "/" is its first key
in encounter order. A "/" key that is not first is ordinary map data, and a
first "/" key followed by additional keys is malformed and rejected rather
than guessed at.

Use the Decode() and Encode() functions directly, or import this package to
have the codec registered into the go-ipld-prime multicodec registry and
available from the cidlink.DefaultLinkSystem. The plugin subpackage exposes
the same registration as a kubo IPLD plugin.

Encoded output is compact. Decoding verifies that nothing but whitespace
follows the top-level value; anything else is reported as ErrTrailingData so
callers can tell "valid value, extra bytes" apart from "malformed value".

Integers beyond 64 bits encode exactly when carried by a bignum.Node. On
decode, integer literals outside the int64 range fall back to float64 by
default; set DecodeOptions.ParseBigIntegers to receive full-precision
bignum.Node values instead.
*/
package dagjson

// HumanReadable reports that this codec's substrate is textual. Node
// implementations that pick a representation based on the substrate can
// consult it; for DAG-JSON it is always true.
const HumanReadable = true
