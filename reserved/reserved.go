// Package reserved handles the canonical JSON text forms under DAG-JSON's
// reserved "/" key: the base-encoded CID of a link and the base64 body of a
// bytes payload. It is pure parsing and formatting with no I/O and no
// recursion; the decoder and encoder in the parent package decide when one
// of the reserved shapes has been encountered.
package reserved

import (
	"encoding/base64"
	"fmt"

	"github.com/ipfs/go-cid"
)

// Key is the reserved map key that introduces both special shapes.
const Key = "/"

// BytesKey is the single key of the inner object of the bytes shape.
const BytesKey = "bytes"

// ParseLink parses the string value of a reserved map into a CID.
// The text is the CID's self-describing base-encoded form, e.g.
// "bafkreibme22gw2h7y2h7tg2fhqotaqjucnbc24deqo72b6mkl2egezxhvy".
func ParseLink(text string) (cid.Cid, error) {
	c, err := cid.Decode(text)
	if err != nil {
		return cid.Undef, fmt.Errorf("invalid CID %q", text)
	}
	return c, nil
}

// ParseBytes parses the "bytes" field of a reserved map into raw bytes.
// DAG-JSON uses the standard base64 alphabet without padding (multibase
// base64, minus the multibase prefix).
func ParseBytes(text string) ([]byte, error) {
	b, err := base64.RawStdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("cannot base decode bytes %q", text)
	}
	return b, nil
}

// FormatLink returns the canonical text form of a CID for the link shape.
func FormatLink(c cid.Cid) (string, error) {
	if !c.Defined() {
		return "", fmt.Errorf("cannot format an undefined CID as a link")
	}
	return c.String(), nil
}

// FormatBytes returns the base64 text form of raw bytes for the bytes shape.
func FormatBytes(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}
