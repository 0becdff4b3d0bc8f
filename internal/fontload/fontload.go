// Package fontload does the shared font loading of the glyphtools CLIs:
// read a font file, parse the SFNT container and decode the OpenType tables.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © Norbert Pillmayer <norbert@pillmayer.com>
package fontload

import (
	"os"

	"github.com/npillmayer/opentype"
	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphtools.fontload'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.fontload")
}

// FromFile reads and decodes the font in the named file. The returned font
// carries its raw binary, retrievable via Binary.
func FromFile(path string) (*ot.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", path, err)
		return nil, err
	}
	otf, err := opentype.FromBinary(data)
	if err != nil {
		tracer().Errorf("cannot decode font %s: %s", path, err)
		return nil, err
	}
	family, _ := opentype.FamilyName(otf)
	tracer().Infof("loaded SFNT font = %s", family)
	return otf, nil
}

// FromBinary decodes a font from raw bytes.
func FromBinary(data []byte) (*ot.Font, error) {
	return opentype.FromBinary(data)
}

// Binary returns the raw font bytes a font was decoded from, for clients
// that feed the same font to another parser.
func Binary(otf *ot.Font) []byte {
	if otf == nil {
		return nil
	}
	return otf.Binary()
}

// Exists checks that the named file is present and a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
