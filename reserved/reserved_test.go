package reserved_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/vulcanize/go-codec-dagjson/reserved"
)

var fixtureCIDText = "bafkreibme22gw2h7y2h7tg2fhqotaqjucnbc24deqo72b6mkl2egezxhvy"

func TestParseLink(t *testing.T) {
	c, err := reserved.ParseLink(fixtureCIDText)
	if err != nil {
		t.Fatalf("unable to parse CID text: %v", err)
	}
	if c.String() != fixtureCIDText {
		t.Errorf("parsed CID (%s) does not match input text (%s)", c.String(), fixtureCIDText)
	}

	for _, text := range []string{"", "not a cid", "bafybogus"} {
		if _, err := reserved.ParseLink(text); err == nil {
			t.Errorf("parsing %q succeeded, expected an error", text)
		} else if !strings.Contains(err.Error(), "invalid CID") {
			t.Errorf("parsing %q returned unexpected message: %v", text, err)
		}
	}
}

func TestFormatLink(t *testing.T) {
	c, err := cid.Decode(fixtureCIDText)
	if err != nil {
		t.Fatalf("unable to decode fixture CID: %v", err)
	}
	text, err := reserved.FormatLink(c)
	if err != nil {
		t.Fatalf("unable to format CID: %v", err)
	}
	if text != fixtureCIDText {
		t.Errorf("formatted CID (%s) does not match expected text (%s)", text, fixtureCIDText)
	}

	if _, err := reserved.FormatLink(cid.Undef); err == nil {
		t.Errorf("formatting an undefined CID succeeded, expected an error")
	}
}

func TestParseBytes(t *testing.T) {
	b, err := reserved.ParseBytes("dm14")
	if err != nil {
		t.Fatalf("unable to parse base64 text: %v", err)
	}
	if !bytes.Equal(b, []byte("vmx")) {
		t.Errorf("parsed bytes (%v) do not match expected bytes (vmx)", b)
	}

	empty, err := reserved.ParseBytes("")
	if err != nil {
		t.Fatalf("unable to parse empty base64 text: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("parsed bytes (%v) are not empty", empty)
	}

	// Padded and otherwise malformed text is rejected, the encoding is
	// base64 without padding.
	for _, text := range []string{"dm14=", "1", "!!!"} {
		if _, err := reserved.ParseBytes(text); err == nil {
			t.Errorf("parsing %q succeeded, expected an error", text)
		} else if !strings.Contains(err.Error(), "cannot base decode bytes") {
			t.Errorf("parsing %q returned unexpected message: %v", text, err)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if text := reserved.FormatBytes([]byte("vmx")); text != "dm14" {
		t.Errorf("formatted bytes (%s) do not match expected text (dm14)", text)
	}
	if text := reserved.FormatBytes(nil); text != "" {
		t.Errorf("formatted empty bytes (%s) are not empty", text)
	}
}
