/*
Package charset resolves character-range descriptors into sequences of code points.

A descriptor is a list of tokens separated by ',' or ';'. Each token is either a
single hexadecimal code like

	0x41

or a range

	0x40-0x50

A range is half-open: its upper bound is not part of the result. The example above
resolves to 0x40…0x4f. Code points are returned in descriptor order, duplicates are
kept.

Parse is strict: a malformed token aborts the parse and no partial result is
returned. Resolve applies the build-time filtering of code points (invalid runes,
the space character, optionally control characters) and may prepend a null character.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package charset

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ejf.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.fonts")
}
