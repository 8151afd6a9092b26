package ejf

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/npillmayer/ejfont/core"
)

// Entry is a single archive entry of a container.
type Entry struct {
	Name   string
	Method uint16
	Data   []byte
}

// Container is a container read into memory.
type Container struct {
	Entries []Entry // in archive order
	Header  *Header
	index   map[string]int
}

// Open reads a container file.
func Open(path string) (*Container, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, core.WrapError(err, core.ECONTAINER, "cannot open container %s", path)
	}
	defer zr.Close()
	return read(&zr.Reader)
}

// Read reads a container from r.
func Read(r io.ReaderAt, size int64) (*Container, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, core.WrapError(err, core.ECONTAINER, "cannot read container")
	}
	return read(zr)
}

func read(zr *zip.Reader) (*Container, error) {
	c := &Container{index: make(map[string]int, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, core.WrapError(err, core.ECONTAINER, "cannot open entry %s", f.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, core.WrapError(err, core.ECONTAINER, "cannot read entry %s", f.Name)
		}
		c.index[f.Name] = len(c.Entries)
		c.Entries = append(c.Entries, Entry{Name: f.Name, Method: f.Method, Data: data})
	}
	hdr, ok := c.Entry(HeaderEntry)
	if !ok {
		return nil, core.Error(core.EHEADER, "container has no header")
	}
	var err error
	if c.Header, err = DecodeHeader(bytes.NewReader(hdr.Data)); err != nil {
		return nil, err
	}
	tracer().Debugf("read container, %v", c.Header)
	return c, nil
}

// Entry returns the entry with the given name.
func (c *Container) Entry(name string) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.Entries[i], true
}

// Names returns the entry names in archive order.
func (c *Container) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// Codes returns the code points declared in the header, in header order.
func (c *Container) Codes() ([]rune, error) {
	chars := c.Header.FontCharacterProperties.Characters
	codes := make([]rune, 0, len(chars))
	for _, ch := range chars {
		code, err := ch.Code()
		if err != nil {
			return nil, core.WrapError(err, core.EHEADER, "invalid character index %q", ch.Index)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Image decodes the primary image of a code point.
func (c *Container) Image(code rune) (image.Image, error) {
	e, ok := c.Entry(EntryName(code))
	if !ok {
		return nil, core.Error(core.EMISSING, "container has no entry for 0x%x", code)
	}
	img, err := png.Decode(bytes.NewReader(e.Data))
	if err != nil {
		return nil, core.WrapError(err, core.EIMAGE, "cannot decode image for 0x%x", code)
	}
	return img, nil
}

// Verify checks the structural rules of a container: every entry stored,
// design entries identical to their primary entries, header last and every
// declared character present.
func (c *Container) Verify() error {
	if n := len(c.Entries); n == 0 || c.Entries[n-1].Name != HeaderEntry {
		return core.Error(core.EINVALID, "header is not the last entry")
	}
	for _, e := range c.Entries {
		if e.Method != zip.Store {
			return core.Error(core.EINVALID, "entry %s is compressed", e.Name)
		}
	}
	codes, err := c.Codes()
	if err != nil {
		return err
	}
	for _, code := range codes {
		primary, ok1 := c.Entry(EntryName(code))
		design, ok2 := c.Entry(DesignEntryName(code))
		if !ok1 || !ok2 {
			return core.Error(core.EINVALID, "entries for 0x%x missing", code)
		}
		if !bytes.Equal(primary.Data, design.Data) {
			return core.Error(core.EINVALID, "design entry for 0x%x differs", code)
		}
	}
	if want := 2*len(codes) + 1; want != len(c.Entries) {
		return core.Error(core.EINVALID, "container has %d entries, expected %d", len(c.Entries), want)
	}
	return nil
}
