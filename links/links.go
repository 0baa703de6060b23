// Package links extracts CID references from DAG-JSON documents without
// materializing the documents themselves. Every value fed to the collecting
// assembler is discarded except links, so extraction allocates little beyond
// the result slice.
package links

import (
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"

	dagjson "github.com/vulcanize/go-codec-dagjson"
)

// Extract returns every CID referenced by src, a single DAG-JSON document,
// in document order: depth-first, map values in source key order, list
// elements in source order. A CID referenced more than once appears once per
// reference.
func Extract(src []byte) ([]cid.Cid, error) {
	var out []cid.Cid
	if err := dagjson.DecodeBytes(NewAssembler(&out), src); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractReader is like Extract, but it consumes a stream.
func ExtractReader(r io.Reader) ([]cid.Cid, error) {
	var out []cid.Cid
	if err := dagjson.Decode(NewAssembler(&out), r); err != nil {
		return nil, err
	}
	return out, nil
}

// NewAssembler returns a datamodel.NodeAssembler that appends every link
// assembled into it to out and drops everything else. It can be handed to
// any decoder, not only this package's entry points.
func NewAssembler(out *[]cid.Cid) datamodel.NodeAssembler {
	return &assembler{out: out}
}

type assembler struct {
	out *[]cid.Cid
}

func (a *assembler) BeginMap(sizeHint int64) (datamodel.MapAssembler, error) {
	return mapAssembler{a}, nil
}

func (a *assembler) BeginList(sizeHint int64) (datamodel.ListAssembler, error) {
	return listAssembler{a}, nil
}

func (a *assembler) AssignNull() error { return nil }
func (a *assembler) AssignBool(bool) error { return nil }
func (a *assembler) AssignInt(int64) error { return nil }
func (a *assembler) AssignFloat(float64) error { return nil }
func (a *assembler) AssignString(string) error { return nil }
func (a *assembler) AssignBytes([]byte) error { return nil }

func (a *assembler) AssignLink(lnk datamodel.Link) error {
	if cl, ok := lnk.(cidlink.Link); ok {
		*a.out = append(*a.out, cl.Cid)
		return nil
	}
	// Links of other implementations are rebuilt from their text form rather
	// than skipped.
	c, err := cid.Decode(lnk.String())
	if err != nil {
		return fmt.Errorf("cannot extract non-CID link %q", lnk.String())
	}
	*a.out = append(*a.out, c)
	return nil
}

// AssignNode walks an already-built node, collecting its links. This makes
// the assembler usable against decoders that hand over whole subtrees.
func (a *assembler) AssignNode(n datamodel.Node) error {
	switch n.Kind() {
	case datamodel.Kind_Link:
		lnk, err := n.AsLink()
		if err != nil {
			return err
		}
		return a.AssignLink(lnk)
	case datamodel.Kind_Map:
		itr := n.MapIterator()
		for !itr.Done() {
			_, v, err := itr.Next()
			if err != nil {
				return err
			}
			if err := a.AssignNode(v); err != nil {
				return err
			}
		}
		return nil
	case datamodel.Kind_List:
		itr := n.ListIterator()
		for !itr.Done() {
			_, v, err := itr.Next()
			if err != nil {
				return err
			}
			if err := a.AssignNode(v); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (a *assembler) Prototype() datamodel.NodePrototype {
	return basicnode.Prototype.Any
}

type mapAssembler struct {
	a *assembler
}

// AssembleKey discards keys entirely; a link-shaped value cannot appear in
// key position in DAG-JSON, keys are always plain strings.
func (m mapAssembler) AssembleKey() datamodel.NodeAssembler { return discard{} }
func (m mapAssembler) AssembleValue() datamodel.NodeAssembler { return m.a }

func (m mapAssembler) AssembleEntry(k string) (datamodel.NodeAssembler, error) {
	return m.a, nil
}

func (m mapAssembler) Finish() error { return nil }

func (m mapAssembler) KeyPrototype() datamodel.NodePrototype {
	return basicnode.Prototype.String
}

func (m mapAssembler) ValuePrototype(k string) datamodel.NodePrototype {
	return basicnode.Prototype.Any
}

type listAssembler struct {
	a *assembler
}

func (l listAssembler) AssembleValue() datamodel.NodeAssembler { return l.a }
func (l listAssembler) Finish() error { return nil }

func (l listAssembler) ValuePrototype(idx int64) datamodel.NodePrototype {
	return basicnode.Prototype.Any
}

// discard swallows anything, links included.
type discard struct{}

func (discard) BeginMap(sizeHint int64) (datamodel.MapAssembler, error) {
	return discardMap{}, nil
}

func (discard) BeginList(sizeHint int64) (datamodel.ListAssembler, error) {
	return discardList{}, nil
}

func (discard) AssignNull() error { return nil }
func (discard) AssignBool(bool) error { return nil }
func (discard) AssignInt(int64) error { return nil }
func (discard) AssignFloat(float64) error { return nil }
func (discard) AssignString(string) error { return nil }
func (discard) AssignBytes([]byte) error { return nil }
func (discard) AssignLink(datamodel.Link) error { return nil }
func (discard) AssignNode(datamodel.Node) error { return nil }
func (discard) Prototype() datamodel.NodePrototype { return basicnode.Prototype.Any }

type discardMap struct{}

func (discardMap) AssembleKey() datamodel.NodeAssembler { return discard{} }
func (discardMap) AssembleValue() datamodel.NodeAssembler { return discard{} }

func (discardMap) AssembleEntry(k string) (datamodel.NodeAssembler, error) {
	return discard{}, nil
}

func (discardMap) Finish() error { return nil }

func (discardMap) KeyPrototype() datamodel.NodePrototype {
	return basicnode.Prototype.String
}

func (discardMap) ValuePrototype(k string) datamodel.NodePrototype {
	return basicnode.Prototype.Any
}

type discardList struct{}

func (discardList) AssembleValue() datamodel.NodeAssembler { return discard{} }
func (discardList) Finish() error { return nil }

func (discardList) ValuePrototype(idx int64) datamodel.NodePrototype {
	return basicnode.Prototype.Any
}
