/*
Package ejf reads and writes EJF bitmap-font containers.

An EJF container is a zip archive with uncompressed (stored) entries. For every
character it holds a PNG image named after the character's code in lower-case
hex, e.g.

	0x41
	design_0x41

where the design entry is a byte-identical copy of the primary entry. The last
entry is an XML document named "Header", which lists every character together
with its declared spacing and the properties of the font.

Writing is incremental: characters are written as they are rendered, the header
is written on Finish.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ejf

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/engine/glyph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ejf.container'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.container")
}

// Writer writes a container.
type Writer struct {
	zw       *zip.Writer
	file     *os.File // set if the writer created the output file
	path     string
	chars    []Character
	enc      png.Encoder
	buf      bytes.Buffer
	finished bool
}

// Create creates a container file. An existing file is truncated.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, core.WrapError(err, core.ECONTAINER, "cannot create container %s", path)
	}
	w := NewWriter(f)
	w.file = f
	w.path = path
	tracer().Debugf("created container %s", path)
	return w, nil
}

// NewWriter creates a container writer on top of an io.Writer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		zw:  zip.NewWriter(out),
		enc: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// Path returns the path of the container file, if the writer created one.
func (w *Writer) Path() string {
	return w.path
}

// Len returns the number of characters written so far.
func (w *Writer) Len() int {
	return len(w.chars)
}

// WriteCharacter PNG-encodes img and writes it as primary and design entry for
// code. declared is the spacing listed for the character in the header.
func (w *Writer) WriteCharacter(code rune, img image.Image, declared glyph.Spacing) error {
	if w.finished {
		return core.Error(core.ECONTAINER, "container already finished")
	}
	w.buf.Reset()
	if err := w.enc.Encode(&w.buf, img); err != nil {
		return core.WrapError(err, core.EIMAGE, "cannot encode image for 0x%x", code)
	}
	data := w.buf.Bytes()
	for _, name := range []string{EntryName(code), DesignEntryName(code)} {
		if err := w.store(name, data); err != nil {
			return err
		}
	}
	w.chars = append(w.chars, Character{
		Index:      EntryName(code),
		LeftSpace:  declared.Left,
		RightSpace: declared.Right,
	})
	return nil
}

// store writes a stored entry. Size and checksum go into the local header,
// so the entry needs no trailing data descriptor.
func (w *Writer) store(name string, data []byte) error {
	fw, err := w.zw.CreateRaw(&zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		ReaderVersion:      20,
		CRC32:              crc32.ChecksumIEEE(data),
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	})
	if err != nil {
		return core.WrapError(err, core.ECONTAINER, "cannot create entry %s", name)
	}
	if _, err = fw.Write(data); err != nil {
		return core.WrapError(err, core.ECONTAINER, "cannot write entry %s", name)
	}
	return nil
}

// Finish writes the header document and closes the container.
func (w *Writer) Finish(name string, height uint32) error {
	if w.finished {
		return core.Error(core.ECONTAINER, "container already finished")
	}
	w.finished = true
	w.buf.Reset()
	if err := NewHeader(name, height, w.chars).Encode(&w.buf); err != nil {
		w.closeFile()
		return err
	}
	if err := w.store(HeaderEntry, w.buf.Bytes()); err != nil {
		w.closeFile()
		return err
	}
	if err := w.zw.Close(); err != nil {
		w.closeFile()
		return core.WrapError(err, core.ECONTAINER, "cannot finish container")
	}
	if err := w.closeFile(); err != nil {
		return core.WrapError(err, core.ECONTAINER, "cannot close container %s", w.path)
	}
	tracer().Debugf("container %q finished with %d characters", name, len(w.chars))
	return nil
}

// Abort stops writing. A container file created by Create is removed.
func (w *Writer) Abort() error {
	w.finished = true
	w.closeFile()
	if w.path == "" {
		return nil
	}
	tracer().Infof("removing partial container %s", w.path)
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return core.WrapError(err, core.ECONTAINER, "cannot remove partial container %s", w.path)
	}
	return nil
}

func (w *Writer) closeFile() error {
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil
	return f.Close()
}
