package dagjson

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"sort"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"

	"github.com/vulcanize/go-codec-dagjson/reserved"
	"github.com/vulcanize/go-codec-dagjson/shared"
)

// BigIntNode is the interface the encoder probes for integers that may not
// fit in 64 bits. Nodes implementing it (bignum.Node among them) are emitted
// as exact decimal literals regardless of magnitude.
type BigIntNode interface {
	datamodel.Node
	AsBigInt() (*big.Int, error)
}

// EncodeOptions can be used to customize the behavior of an encoding function.
// The Encode method on this struct fits the codec.Encoder function interface.
type EncodeOptions struct {
	// EncodeLinks enables writing links in the reserved {"/": "<cid>"} form.
	// Encoding a link node with this unset is an error.
	EncodeLinks bool

	// EncodeBytes enables writing bytes in the reserved
	// {"/": {"bytes": "<base64>"}} form. Encoding a bytes node with this
	// unset is an error.
	EncodeBytes bool

	// MapSortMode controls whether map entries are emitted in the node's
	// own order (codec.MapSortMode_None) or re-sorted.
	MapSortMode codec.MapSortMode

	// MaxNestingDepth overrides DefaultMaxNestingDepth when positive.
	MaxNestingDepth int
}

// Encode provides an IPLD codec encode interface for DAG-JSON. It writes
// inNode to w as compact JSON, with no whitespace and no trailing newline.
// This function is registered for multicodec code 0x0129 when this package
// is imported.
func Encode(inNode ipld.Node, w io.Writer) error {
	enc := make([]byte, 0, 1024)
	enc, err := AppendEncode(enc, inNode)
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}

// AppendEncode is like Encode, but it outputs to a byte slice instead of
// using an io.Writer.
func AppendEncode(enc []byte, inNode ipld.Node) ([]byte, error) {
	wbs := shared.NewWriteableByteSlice(&enc)
	err := EncodeOptions{
		EncodeLinks: true,
		EncodeBytes: true,
		MapSortMode: codec.MapSortMode_None,
	}.Encode(inNode, wbs)
	if err != nil {
		return enc, err
	}
	return enc, nil
}

// Encode serializes n to w as one DAG-JSON value.
func (cfg EncodeOptions) Encode(n ipld.Node, w io.Writer) error {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.AllowDuplicateNames(true))
	if err := cfg.Marshal(n, enc); err != nil {
		return err
	}
	// The tokenizer delimits top-level values with a newline; codec output
	// carries none.
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	_, err := w.Write(out)
	return err
}

// Marshal writes one value onto an existing token stream.
func (cfg EncodeOptions) Marshal(n ipld.Node, enc *jsontext.Encoder) error {
	maxDepth := cfg.MaxNestingDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}
	return wrapEncodeError(cfg.marshal(n, enc, 0, maxDepth))
}

func (cfg EncodeOptions) marshal(n ipld.Node, enc *jsontext.Encoder, depth, maxDepth int) error {
	switch n.Kind() {
	case datamodel.Kind_Map:
		if depth >= maxDepth {
			return fmt.Errorf("value exceeds maximum nesting depth of %d", maxDepth)
		}
		return cfg.marshalMap(n, enc, depth+1, maxDepth)
	case datamodel.Kind_List:
		if depth >= maxDepth {
			return fmt.Errorf("value exceeds maximum nesting depth of %d", maxDepth)
		}
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return err
		}
		itr := n.ListIterator()
		for !itr.Done() {
			_, v, err := itr.Next()
			if err != nil {
				return err
			}
			if err := cfg.marshal(v, enc, depth+1, maxDepth); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ArrayEnd)
	case datamodel.Kind_Null:
		return enc.WriteToken(jsontext.Null)
	case datamodel.Kind_Bool:
		b, err := n.AsBool()
		if err != nil {
			return err
		}
		return enc.WriteToken(jsontext.Bool(b))
	case datamodel.Kind_Int:
		return cfg.marshalInt(n, enc)
	case datamodel.Kind_Float:
		f, err := n.AsFloat()
		if err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("float must be a finite number, not Infinity or NaN")
		}
		return enc.WriteToken(jsontext.Float(f))
	case datamodel.Kind_String:
		s, err := n.AsString()
		if err != nil {
			return err
		}
		return enc.WriteToken(jsontext.String(s))
	case datamodel.Kind_Bytes:
		if !cfg.EncodeBytes {
			return fmt.Errorf("bytes are disabled, cannot encode a bytes node")
		}
		b, err := n.AsBytes()
		if err != nil {
			return err
		}
		return cfg.marshalReserved(enc, func() error {
			if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
				return err
			}
			if err := enc.WriteToken(jsontext.String(reserved.BytesKey)); err != nil {
				return err
			}
			if err := enc.WriteToken(jsontext.String(reserved.FormatBytes(b))); err != nil {
				return err
			}
			return enc.WriteToken(jsontext.ObjectEnd)
		})
	case datamodel.Kind_Link:
		if !cfg.EncodeLinks {
			return fmt.Errorf("links are disabled, cannot encode a link node")
		}
		lnk, err := n.AsLink()
		if err != nil {
			return err
		}
		c, err := linkCid(lnk)
		if err != nil {
			return err
		}
		text, err := reserved.FormatLink(c)
		if err != nil {
			return err
		}
		return cfg.marshalReserved(enc, func() error {
			return enc.WriteToken(jsontext.String(text))
		})
	default:
		return fmt.Errorf("cannot encode a value of kind %s", n.Kind())
	}
}

// marshalReserved emits {"/": <value>} with the value produced by emit.
func (cfg EncodeOptions) marshalReserved(enc *jsontext.Encoder, emit func() error) error {
	if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.String(reserved.Key)); err != nil {
		return err
	}
	if err := emit(); err != nil {
		return err
	}
	return enc.WriteToken(jsontext.ObjectEnd)
}

func (cfg EncodeOptions) marshalMap(n ipld.Node, enc *jsontext.Encoder, depth, maxDepth int) error {
	if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
		return err
	}
	if cfg.MapSortMode == codec.MapSortMode_None {
		itr := n.MapIterator()
		for !itr.Done() {
			k, v, err := itr.Next()
			if err != nil {
				return err
			}
			ks, err := k.AsString()
			if err != nil {
				return fmt.Errorf("map key must be a string, not %s", k.Kind())
			}
			if err := enc.WriteToken(jsontext.String(ks)); err != nil {
				return err
			}
			if err := cfg.marshal(v, enc, depth, maxDepth); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ObjectEnd)
	}
	// Sorting modes must buffer the entries first.
	type entry struct {
		key   string
		value datamodel.Node
	}
	entries := make([]entry, 0, n.Length())
	itr := n.MapIterator()
	for !itr.Done() {
		k, v, err := itr.Next()
		if err != nil {
			return err
		}
		ks, err := k.AsString()
		if err != nil {
			return fmt.Errorf("map key must be a string, not %s", k.Kind())
		}
		entries = append(entries, entry{ks, v})
	}
	switch cfg.MapSortMode {
	case codec.MapSortMode_Lexical:
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].key < entries[j].key
		})
	case codec.MapSortMode_RFC7049:
		sort.Slice(entries, func(i, j int) bool {
			// RFC7049 style: shorter keys first, bytewise within a length.
			if len(entries[i].key) != len(entries[j].key) {
				return len(entries[i].key) < len(entries[j].key)
			}
			return entries[i].key < entries[j].key
		})
	default:
		return fmt.Errorf("unsupported map sort mode %v", cfg.MapSortMode)
	}
	for _, e := range entries {
		if err := enc.WriteToken(jsontext.String(e.key)); err != nil {
			return err
		}
		if err := cfg.marshal(e.value, enc, depth, maxDepth); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.ObjectEnd)
}

// marshalInt picks the widest faithful representation available: exact big
// integers first, then unsigned 64-bit, then signed 64-bit.
func (cfg EncodeOptions) marshalInt(n ipld.Node, enc *jsontext.Encoder) error {
	if bin, ok := n.(BigIntNode); ok {
		i, err := bin.AsBigInt()
		if err != nil {
			return err
		}
		if i.IsInt64() {
			return enc.WriteToken(jsontext.Int(i.Int64()))
		}
		return enc.WriteValue(jsontext.Value(i.Append(nil, 10)))
	}
	if uin, ok := n.(datamodel.UintNode); ok {
		u, err := uin.AsUint()
		if err != nil {
			return err
		}
		return enc.WriteToken(jsontext.Uint(u))
	}
	i, err := n.AsInt()
	if err != nil {
		return err
	}
	return enc.WriteToken(jsontext.Int(i))
}

// linkCid unpacks the CID behind a datamodel.Link. Link implementations
// other than cidlink are reconstructed from their binary form.
func linkCid(lnk datamodel.Link) (cid.Cid, error) {
	if cl, ok := lnk.(cidlink.Link); ok {
		return cl.Cid, nil
	}
	c, err := cid.Cast([]byte(lnk.Binary()))
	if err != nil {
		return cid.Undef, fmt.Errorf("cannot encode non-CID link %q", lnk.String())
	}
	return c, nil
}
