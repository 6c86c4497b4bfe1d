package graph

import (
	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// Component binary preamble: magic "\0asm" followed by a version/layer
// field. Core modules use version 0x00000001; components set the layer
// bit, encoded little-endian as 0x0a 0x00 0x01 0x00.
var componentPreamble = []byte{0x00, 0x61, 0x73, 0x6d, 0x0a, 0x00, 0x01, 0x00}

// Section ids, matching the component model binary format.
const (
	sectionCustom         = 0
	sectionComponentEmbed = 4
	sectionExport         = 11
)

// customSectionName carries the builder's own serialized instance/edge
// graph alongside the embedded packages, so the sealed composition's
// wiring is recoverable from the encoded binary for diagnostics without
// re-running the resolver/introspector.
const customSectionName = "wasmcp:graph"

// Encode serializes the sealed graph into a single component binary:
// every distinct package's bytes are embedded as a component section in
// load order, the builder's own instance/edge/terminal-export record is
// written as a custom section, and a single export section aliases the
// terminal export under its declared name.
//
// This performs section framing and LEB128 encoding directly against the
// binary format; it does not re-link or re-validate the embedded
// packages' internal canonical-ABI wiring, since no library in the pack
// performs that (see DESIGN.md).
func (g *Graph) Encode() ([]byte, error) {
	if g.terminal == nil {
		return nil, composeerr.New(composeerr.KindCompositionFailed, "EncodeFailed",
			"graph has no terminal export: call ExportTerminal before Encode")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	out := append([]byte{}, componentPreamble...)

	for _, pkg := range g.packages {
		out = appendSection(out, sectionComponentEmbed, pkg.Bytes)
	}

	out = appendSection(out, sectionCustom, g.encodeGraphRecord())
	out = appendSection(out, sectionExport, g.encodeExportSection())

	return out, nil
}

// appendSection appends a section id byte, its LEB128-encoded length, and
// its payload.
func appendSection(buf []byte, id byte, payload []byte) []byte {
	buf = append(buf, id)
	buf = appendULEB128(buf, uint64(len(payload)))
	return append(buf, payload...)
}

// encodeGraphRecord serializes instances and edges as the custom
// section's payload: a name, then counts and fixed-width records. This is
// the builder's own format, not part of the component-model spec.
func (g *Graph) encodeGraphRecord() []byte {
	var buf []byte
	buf = appendName(buf, customSectionName)

	buf = appendULEB128(buf, uint64(len(g.instances)))
	for _, inst := range g.instances {
		buf = appendULEB128(buf, uint64(inst.Package))
		buf = appendULEB128(buf, uint64(inst.State))
	}

	buf = appendULEB128(buf, uint64(len(g.edges)))
	for _, e := range g.edges {
		buf = appendULEB128(buf, uint64(e.From))
		buf = appendName(buf, string(e.FromName))
		buf = appendULEB128(buf, uint64(e.To))
		buf = appendName(buf, string(e.ToSlot))
	}

	buf = appendName(buf, string(g.terminalName))
	buf = appendULEB128(buf, uint64(g.terminal.Instance))
	buf = appendName(buf, string(g.terminal.Name))

	return buf
}

// encodeExportSection writes a single export entry naming the graph's
// terminal export.
func (g *Graph) encodeExportSection() []byte {
	var buf []byte
	buf = appendULEB128(buf, 1) // one export
	buf = appendName(buf, string(g.terminalName))
	buf = appendULEB128(buf, uint64(g.terminal.Instance))
	return buf
}
