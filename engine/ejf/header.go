package ejf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/charset"
)

// Fixed properties of every header document.
const (
	Vendor     = "IS2T"
	Version    = "0.8"
	Baseline   = 13
	Filter     = "u"
	Space      = 5
	Style      = "pu"
	Width      = -1
	Identifier = "34"
)

// HeaderEntry is the name of the header document inside a container.
const HeaderEntry = "Header"

// Header is the XML document describing a bitmap font.
type Header struct {
	XMLName                 xml.Name                `xml:"FontGenerator"`
	Informations            Informations            `xml:"Informations"`
	FontProperties          FontProperties          `xml:"FontProperties"`
	FontCharacterProperties FontCharacterProperties `xml:"FontCharacterProperties"`
}

// Informations holds vendor and format version.
type Informations struct {
	Vendor  string `xml:"Vendor,attr"`
	Version string `xml:"Version,attr"`
}

// FontProperties describes the font as a whole.
type FontProperties struct {
	Baseline   int            `xml:"Baseline,attr"`
	Filter     string         `xml:"Filter,attr"`
	Height     uint32         `xml:"Height,attr"`
	Name       string         `xml:"Name,attr"`
	Space      int            `xml:"Space,attr"`
	Style      string         `xml:"Style,attr"`
	Width      int            `xml:"Width,attr"`
	Identifier IdentifierProp `xml:"Identifier"`
}

// IdentifierProp is the font's identifier element.
type IdentifierProp struct {
	Value string `xml:"Value,attr"`
}

// FontCharacterProperties lists the characters of a font.
type FontCharacterProperties struct {
	Characters []Character `xml:"Character"`
}

// Character declares one character of a font and its spacing.
type Character struct {
	Index      string `xml:"Index,attr"`
	LeftSpace  uint32 `xml:"LeftSpace,attr"`
	RightSpace uint32 `xml:"RightSpace,attr"`
}

// Code returns the code point of a character declaration.
func (c Character) Code() (rune, error) {
	return charset.ParseCode(c.Index)
}

// EntryName returns the name of a code point's image entry, e.g. "0x41".
func EntryName(code rune) string {
	return "0x" + strconv.FormatInt(int64(code), 16)
}

// DesignEntryName returns the name of a code point's design entry, e.g. "design_0x41".
func DesignEntryName(code rune) string {
	return "design_" + EntryName(code)
}

// NewHeader creates a header document with the fixed properties.
func NewHeader(name string, height uint32, chars []Character) *Header {
	return &Header{
		Informations: Informations{Vendor: Vendor, Version: Version},
		FontProperties: FontProperties{
			Baseline:   Baseline,
			Filter:     Filter,
			Height:     height,
			Name:       name,
			Space:      Space,
			Style:      Style,
			Width:      Width,
			Identifier: IdentifierProp{Value: Identifier},
		},
		FontCharacterProperties: FontCharacterProperties{Characters: chars},
	}
}

// leafElement matches the elements which carry attributes only, as written by
// encoding/xml. Attribute values never contain '<' or '>', the encoder escapes
// them.
var leafElement = regexp.MustCompile(`<(Informations|Identifier|Character)( [^<>]*)></(?:Informations|Identifier|Character)>`)

// Encode writes the header as XML, without XML declaration and indentation.
// Attribute-only elements are written self-closing, e.g. <Identifier Value="34"/>.
func (h *Header) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := xml.NewEncoder(&buf).Encode(h); err != nil {
		return core.WrapError(err, core.EHEADER, "cannot write header document")
	}
	doc := leafElement.ReplaceAll(buf.Bytes(), []byte("<${1}${2}/>"))
	if _, err := w.Write(doc); err != nil {
		return core.WrapError(err, core.EHEADER, "cannot write header document")
	}
	return nil
}

// DecodeHeader reads a header document.
func DecodeHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	if err := xml.NewDecoder(r).Decode(h); err != nil {
		return nil, core.WrapError(err, core.EHEADER, "cannot read header document")
	}
	return h, nil
}

func (h *Header) String() string {
	return fmt.Sprintf("header(%q, height %d, %d characters)", h.FontProperties.Name,
		h.FontProperties.Height, len(h.FontCharacterProperties.Characters))
}
