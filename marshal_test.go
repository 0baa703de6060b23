package dagjson_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ipld/go-ipld-prime/codec"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"

	dagjson "github.com/vulcanize/go-codec-dagjson"
	"github.com/vulcanize/go-codec-dagjson/bignum"
)

func TestEncodeBigIntegers(t *testing.T) {
	for _, lit := range []string{
		`-170141183460469231731687303715884105728`,
		`170141183460469231731687303715884105727`,
		`18446744073709551615`,
	} {
		node, err := bignum.Parse(lit)
		if err != nil {
			t.Fatalf("unable to build big integer node for %s: %v", lit, err)
		}
		if out := encodeNode(t, node); out != lit {
			t.Errorf("encoded output (%s) does not match exact literal (%s)", out, lit)
		}
	}

	// In-range values take the ordinary int path.
	if out := encodeNode(t, bignum.NewUint(7)); out != `7` {
		t.Errorf("encoded output (%s) does not match expected output (7)", out)
	}
	if out := encodeNode(t, bignum.NewUint(math.MaxUint64)); out != `18446744073709551615` {
		t.Errorf("encoded output (%s) does not match uint64 max", out)
	}
}

func TestEncodeNonFiniteFloats(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var buf bytes.Buffer
		err := dagjson.Encode(basicnode.NewFloat(f), &buf)
		if err == nil {
			t.Errorf("encoding %v succeeded, expected an error", f)
			continue
		}
		var ee *dagjson.EncodeError
		if !errors.As(err, &ee) {
			t.Errorf("encoding %v returned %T, expected an *EncodeError", f, err)
		}
		if !strings.Contains(err.Error(), "finite") {
			t.Errorf("encoding %v returned unexpected message: %v", f, err)
		}
	}
}

func TestEncodeUndefinedLink(t *testing.T) {
	var buf bytes.Buffer
	err := dagjson.Encode(basicnode.NewLink(cidlink.Link{}), &buf)
	if err == nil {
		t.Fatalf("encoding an undefined CID succeeded, expected an error")
	}
	var ee *dagjson.EncodeError
	if !errors.As(err, &ee) {
		t.Errorf("encoding an undefined CID returned %T, expected an *EncodeError", err)
	}
}

func TestEncodeMapSortModes(t *testing.T) {
	node, err := qp.BuildMap(basicnode.Prototype.Any, 3, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "bb", qp.Int(1))
		qp.MapEntry(ma, "c", qp.Int(2))
		qp.MapEntry(ma, "a", qp.Int(3))
	})
	if err != nil {
		t.Fatalf("unable to build test node: %v", err)
	}

	for _, c := range []struct {
		mode     codec.MapSortMode
		expected string
	}{
		{codec.MapSortMode_None, `{"bb":1,"c":2,"a":3}`},
		{codec.MapSortMode_Lexical, `{"a":3,"bb":1,"c":2}`},
		{codec.MapSortMode_RFC7049, `{"a":3,"c":2,"bb":1}`},
	} {
		opts := dagjson.EncodeOptions{
			EncodeLinks: true,
			EncodeBytes: true,
			MapSortMode: c.mode,
		}
		var buf bytes.Buffer
		if err := opts.Encode(node, &buf); err != nil {
			t.Fatalf("unable to encode with sort mode %v: %v", c.mode, err)
		}
		if buf.String() != c.expected {
			t.Errorf("encoded output (%s) does not match expected output (%s)", buf.String(), c.expected)
		}
	}
}

func TestEncodeTogglesDisabled(t *testing.T) {
	linkNode := decodeString(t, linkJSON)
	bytesNode := decodeString(t, bytesJSON)

	var buf bytes.Buffer
	noLinks := dagjson.EncodeOptions{EncodeBytes: true}
	if err := noLinks.Encode(linkNode, &buf); err == nil {
		t.Errorf("encoding a link with links disabled succeeded, expected an error")
	}

	buf.Reset()
	noBytes := dagjson.EncodeOptions{EncodeLinks: true}
	if err := noBytes.Encode(bytesNode, &buf); err == nil {
		t.Errorf("encoding bytes with bytes disabled succeeded, expected an error")
	}
}

func TestEncodeDepthLimit(t *testing.T) {
	node, err := qp.BuildList(basicnode.Prototype.Any, 1, func(la datamodel.ListAssembler) {
		qp.ListEntry(la, qp.List(1, func(la datamodel.ListAssembler) {
			qp.ListEntry(la, qp.Int(1))
		}))
	})
	if err != nil {
		t.Fatalf("unable to build test node: %v", err)
	}
	opts := dagjson.EncodeOptions{EncodeLinks: true, EncodeBytes: true, MaxNestingDepth: 1}
	var buf bytes.Buffer
	err = opts.Encode(node, &buf)
	if err == nil {
		t.Fatalf("encoding beyond the configured depth limit succeeded, expected an error")
	}
	var ee *dagjson.EncodeError
	if !errors.As(err, &ee) {
		t.Errorf("depth failure returned %T, expected an *EncodeError", err)
	}
}

func TestCodecErrorUnion(t *testing.T) {
	nb := basicnode.Prototype.Any.NewBuilder()
	decodeErr := dagjson.DecodeBytes(nb, []byte(`{"/":true}`))
	var buf bytes.Buffer
	encodeErr := dagjson.Encode(basicnode.NewFloat(math.NaN()), &buf)
	for _, err := range []error{decodeErr, encodeErr} {
		if err == nil {
			t.Fatalf("expected an error from both codec directions")
		}
		var ce dagjson.CodecError
		if !errors.As(err, &ce) {
			t.Errorf("error %v (%T) does not satisfy CodecError", err, err)
		}
	}
}

func TestAppendEncode(t *testing.T) {
	node := decodeString(t, helloJSON)
	enc := []byte("prefix:")
	enc, err := dagjson.AppendEncode(enc, node)
	if err != nil {
		t.Fatalf("unable to append-encode node: %v", err)
	}
	expected := "prefix:" + helloJSON
	if string(enc) != expected {
		t.Errorf("append-encoded output (%s) does not match expected output (%s)", enc, expected)
	}
}

func TestEncodeCompactOutput(t *testing.T) {
	node, err := qp.BuildMap(basicnode.Prototype.Any, 2, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "a", qp.List(4, func(la datamodel.ListAssembler) {
			qp.ListEntry(la, qp.Int(1))
			qp.ListEntry(la, qp.Float(2.5))
			qp.ListEntry(la, qp.Null())
			qp.ListEntry(la, qp.String("x"))
		}))
		qp.MapEntry(ma, "b", qp.Map(0, func(ma datamodel.MapAssembler) {}))
	})
	if err != nil {
		t.Fatalf("unable to build test node: %v", err)
	}
	expected := `{"a":[1,2.5,null,"x"],"b":{}}`
	if out := encodeNode(t, node); out != expected {
		t.Errorf("encoded output (%s) does not match expected output (%s)", out, expected)
	}
}
