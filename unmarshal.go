package dagjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"

	"github.com/vulcanize/go-codec-dagjson/bignum"
	"github.com/vulcanize/go-codec-dagjson/reserved"
)

// DefaultMaxNestingDepth bounds recursion when an options struct leaves
// MaxNestingDepth at zero. Nesting depth is the only resource this codec
// consumes beyond its input, so both directions enforce a limit.
const DefaultMaxNestingDepth = 1024

// DecodeOptions can be used to customize the behavior of a decoding function.
// The Decode method on this struct fits the codec.Decoder function interface.
type DecodeOptions struct {
	// ParseLinks enables reading links from the reserved {"/": "<cid>"} form.
	ParseLinks bool

	// ParseBytes enables reading bytes from the reserved
	// {"/": {"bytes": "<base64>"}} form.
	ParseBytes bool

	// ParseBigIntegers assigns integer literals outside the int64 range as
	// full-precision bignum.Node values via AssignNode. When unset such
	// literals fall back to float64, losing precision; that fallback is
	// inherited behavior, kept as the default because common assemblers
	// (basicnode among them) only accept 64-bit integers.
	ParseBigIntegers bool

	// DontParseBeyondEnd skips the trailing-data check after the top-level
	// value, for callers streaming several values from one reader.
	DontParseBeyondEnd bool

	// MaxNestingDepth overrides DefaultMaxNestingDepth when positive.
	MaxNestingDepth int
}

// Decode provides an IPLD codec decode interface for DAG-JSON. It reads one
// value from in, feeds it into na, and verifies that nothing but whitespace
// remains; leftovers are reported as ErrTrailingData. This function is
// registered for multicodec code 0x0129 when this package is imported.
func Decode(na ipld.NodeAssembler, in io.Reader) error {
	return DecodeOptions{
		ParseLinks: true,
		ParseBytes: true,
	}.Decode(na, in)
}

// DecodeBytes is like Decode, but it uses an input buffer directly.
func DecodeBytes(na ipld.NodeAssembler, src []byte) error {
	return Decode(na, bytes.NewReader(src))
}

// Decode deserializes one DAG-JSON value from in and feeds it into na.
func (cfg DecodeOptions) Decode(na ipld.NodeAssembler, in io.Reader) error {
	dec := jsontext.NewDecoder(in, jsontext.AllowDuplicateNames(true))
	if err := cfg.Unmarshal(na, dec); err != nil {
		return err
	}
	if cfg.DontParseBeyondEnd {
		return nil
	}
	// A clean stream yields io.EOF here. A second value, or bytes that are
	// not a value at all, both count as trailing data.
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return wrapDecodeError(ErrTrailingData)
	}
	return nil
}

// Unmarshal reads one value from an existing token stream into na. Unlike
// Decode it performs no trailing-data check.
func (cfg DecodeOptions) Unmarshal(na ipld.NodeAssembler, dec *jsontext.Decoder) error {
	maxDepth := cfg.MaxNestingDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}
	return wrapDecodeError(cfg.unmarshal(na, dec, 0, maxDepth))
}

func (cfg DecodeOptions) unmarshal(na ipld.NodeAssembler, dec *jsontext.Decoder, depth, maxDepth int) error {
	switch dec.PeekKind() {
	case '{':
		if depth >= maxDepth {
			return fmt.Errorf("value exceeds maximum nesting depth of %d", maxDepth)
		}
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		return cfg.unmarshalMap(na, dec, depth+1, maxDepth)
	case '[':
		if depth >= maxDepth {
			return fmt.Errorf("value exceeds maximum nesting depth of %d", maxDepth)
		}
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		la, err := na.BeginList(-1)
		if err != nil {
			return err
		}
		for dec.PeekKind() != ']' {
			if err := cfg.unmarshal(la.AssembleValue(), dec, depth+1, maxDepth); err != nil {
				return err
			}
		}
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		return la.Finish()
	case '"':
		tk, err := dec.ReadToken()
		if err != nil {
			return err
		}
		return na.AssignString(tk.String())
	case 'n':
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		return na.AssignNull()
	case 't', 'f':
		tk, err := dec.ReadToken()
		if err != nil {
			return err
		}
		return na.AssignBool(tk.Bool())
	case '0':
		// Numbers are read as raw literals so that the int/float decision
		// (and the big-integer policy) stays in this layer.
		v, err := dec.ReadValue()
		if err != nil {
			return err
		}
		return cfg.assignNumber(na, string(v))
	default:
		// Surface the tokenizer's own syntax or EOF error verbatim.
		_, err := dec.ReadToken()
		if err == nil {
			err = fmt.Errorf("unexpected token")
		}
		return err
	}
}

// unmarshalMap is entered with the opening brace already consumed. It peeks
// the first key: exactly "/" switches to reserved-shape parsing, anything
// else begins an ordinary map with the consumed key re-injected as the first
// entry so no data is lost.
func (cfg DecodeOptions) unmarshalMap(na ipld.NodeAssembler, dec *jsontext.Decoder, depth, maxDepth int) error {
	if dec.PeekKind() == '}' {
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		ma, err := na.BeginMap(0)
		if err != nil {
			return err
		}
		return ma.Finish()
	}
	keyTok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	firstKey := keyTok.String()
	if firstKey == reserved.Key && (cfg.ParseLinks || cfg.ParseBytes) {
		return cfg.unmarshalReserved(na, dec)
	}
	ma, err := na.BeginMap(-1)
	if err != nil {
		return err
	}
	if err := ma.AssembleKey().AssignString(firstKey); err != nil {
		return err
	}
	if err := cfg.unmarshal(ma.AssembleValue(), dec, depth, maxDepth); err != nil {
		return err
	}
	for dec.PeekKind() != '}' {
		keyTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		if err := ma.AssembleKey().AssignString(keyTok.String()); err != nil {
			return err
		}
		if err := cfg.unmarshal(ma.AssembleValue(), dec, depth, maxDepth); err != nil {
			return err
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	return ma.Finish()
}

// unmarshalReserved is entered with {"/" already consumed. Whatever follows
// must be one of the two legal reserved shapes, and the enclosing object
// must close immediately after it; a "/" first key with company is rejected
// rather than reinterpreted as a plain map.
func (cfg DecodeOptions) unmarshalReserved(na ipld.NodeAssembler, dec *jsontext.Decoder) error {
	switch dec.PeekKind() {
	case '"':
		if !cfg.ParseLinks {
			return fmt.Errorf("links are disabled, cannot parse %q as a link", reserved.Key)
		}
		tk, err := dec.ReadToken()
		if err != nil {
			return err
		}
		c, err := reserved.ParseLink(tk.String())
		if err != nil {
			return err
		}
		if err := cfg.closeReserved(dec); err != nil {
			return err
		}
		return na.AssignLink(cidlink.Link{Cid: c})
	case '{':
		if !cfg.ParseBytes {
			return fmt.Errorf("bytes are disabled, cannot parse %q as bytes", reserved.Key)
		}
		if _, err := dec.ReadToken(); err != nil {
			return err
		}
		keyTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		if keyTok.Kind() != '"' || keyTok.String() != reserved.BytesKey {
			return fmt.Errorf("reserved bytes map must contain exactly the key %q", reserved.BytesKey)
		}
		valTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		if valTok.Kind() != '"' {
			return fmt.Errorf("reserved bytes value must be a string")
		}
		data, err := reserved.ParseBytes(valTok.String())
		if err != nil {
			return err
		}
		endTok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		if endTok.Kind() != '}' {
			return fmt.Errorf("reserved bytes map must contain exactly the key %q", reserved.BytesKey)
		}
		if err := cfg.closeReserved(dec); err != nil {
			return err
		}
		return na.AssignBytes(data)
	default:
		return fmt.Errorf("invalid form under reserved key %q, expected a CID or bytes", reserved.Key)
	}
}

func (cfg DecodeOptions) closeReserved(dec *jsontext.Decoder) error {
	tk, err := dec.ReadToken()
	if err != nil {
		return err
	}
	if tk.Kind() != '}' {
		return fmt.Errorf("map with reserved key %q must not contain additional entries", reserved.Key)
	}
	return nil
}

func (cfg DecodeOptions) assignNumber(na ipld.NodeAssembler, lit string) error {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return na.AssignInt(i)
	}
	if !strings.ContainsAny(lit, ".eE") {
		// An integer literal beyond the int64 range.
		if cfg.ParseBigIntegers {
			n, err := bignum.Parse(lit)
			if err != nil {
				return err
			}
			return na.AssignNode(n)
		}
		// Fall through: out-of-range integers become floats, at the cost of
		// precision.
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("invalid number literal %q", lit)
	}
	return na.AssignFloat(f)
}
