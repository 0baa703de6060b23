// Package bignum supplies an int-kinded datamodel.Node backed by a
// math/big.Int, for integers whose magnitude exceeds what int64 can carry.
// The dagjson encoder emits such nodes as exact JSON numeric literals, and
// the decoder produces them when DecodeOptions.ParseBigIntegers is set.
package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ipld/go-ipld-prime/datamodel"
)

var (
	maxInt64  = big.NewInt(math.MaxInt64)
	minInt64  = big.NewInt(math.MinInt64)
	maxUint64 = new(big.Int).SetUint64(math.MaxUint64)
)

// Node is an immutable integer node of arbitrary precision.
// It implements datamodel.Node and datamodel.UintNode.
type Node struct {
	i *big.Int
}

// NewInt returns a Node holding a copy of i.
func NewInt(i *big.Int) Node {
	return Node{i: new(big.Int).Set(i)}
}

// NewUint returns a Node holding u.
func NewUint(u uint64) Node {
	return Node{i: new(big.Int).SetUint64(u)}
}

// Parse returns a Node for a base-10 integer literal.
func Parse(lit string) (Node, error) {
	i, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return Node{}, fmt.Errorf("invalid integer literal %q", lit)
	}
	return Node{i: i}, nil
}

// AsBigInt returns a copy of the node's value at full precision.
func (n Node) AsBigInt() (*big.Int, error) {
	return new(big.Int).Set(n.i), nil
}

func (n Node) Kind() datamodel.Kind {
	return datamodel.Kind_Int
}

func (n Node) AsInt() (int64, error) {
	if n.i.Cmp(maxInt64) > 0 || n.i.Cmp(minInt64) < 0 {
		return 0, fmt.Errorf("integer %s overflows int64", n.i.String())
	}
	return n.i.Int64(), nil
}

// AsUint satisfies datamodel.UintNode for values in the uint64 range, so
// codecs that understand unsigned nodes can still serialize them exactly.
func (n Node) AsUint() (uint64, error) {
	if n.i.Sign() < 0 || n.i.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("integer %s overflows uint64", n.i.String())
	}
	return n.i.Uint64(), nil
}

func (n Node) AsFloat() (float64, error) {
	return 0, wrongKind("AsFloat", datamodel.KindSet_JustFloat)
}

func (n Node) AsBool() (bool, error) {
	return false, wrongKind("AsBool", datamodel.KindSet_JustBool)
}

func (n Node) AsString() (string, error) {
	return "", wrongKind("AsString", datamodel.KindSet_JustString)
}

func (n Node) AsBytes() ([]byte, error) {
	return nil, wrongKind("AsBytes", datamodel.KindSet_JustBytes)
}

func (n Node) AsLink() (datamodel.Link, error) {
	return nil, wrongKind("AsLink", datamodel.KindSet_JustLink)
}

func (n Node) LookupByString(string) (datamodel.Node, error) {
	return nil, wrongKind("LookupByString", datamodel.KindSet_JustMap)
}

func (n Node) LookupByNode(datamodel.Node) (datamodel.Node, error) {
	return nil, wrongKind("LookupByNode", datamodel.KindSet_JustMap)
}

func (n Node) LookupByIndex(int64) (datamodel.Node, error) {
	return nil, wrongKind("LookupByIndex", datamodel.KindSet_JustList)
}

func (n Node) LookupBySegment(datamodel.PathSegment) (datamodel.Node, error) {
	return nil, wrongKind("LookupBySegment", datamodel.KindSet_Recursive)
}

func (n Node) MapIterator() datamodel.MapIterator {
	return nil
}

func (n Node) ListIterator() datamodel.ListIterator {
	return nil
}

func (n Node) Length() int64 {
	return -1
}

func (n Node) IsAbsent() bool {
	return false
}

func (n Node) IsNull() bool {
	return false
}

// Prototype returns nil: bignum nodes are constructed directly rather than
// assembled, since the assembler protocol has no big-integer entry point.
func (n Node) Prototype() datamodel.NodePrototype {
	return nil
}

func wrongKind(method string, appropriate datamodel.KindSet) error {
	return datamodel.ErrWrongKind{
		TypeName:        "bignum.Node",
		MethodName:      method,
		AppropriateKind: appropriate,
		ActualKind:      datamodel.Kind_Int,
	}
}
