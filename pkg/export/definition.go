package export

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/scene"
)

// BlockJob describes the block definition of a scene.
type BlockJob struct {
	Node        string
	MainModel   string
	MountPoints []string
	// Stages are the construction stage models, first stage first.
	Stages []string
}

// Definitions is a block definition document.
type Definitions struct {
	XMLName    xml.Name          `xml:"Definitions"`
	XSI        string            `xml:"xmlns:xsi,attr"`
	XSD        string            `xml:"xmlns:xsd,attr"`
	CubeBlocks []BlockDefinition `xml:"CubeBlocks>Definition"`
}

// BlockDefinition defines one block size.
type BlockDefinition struct {
	ID            DefinitionID         `xml:"Id"`
	CubeSize      string               `xml:"CubeSize"`
	BlockTopology string               `xml:"BlockTopology"`
	Size          Vector3I             `xml:"Size"`
	Model         string               `xml:"Model"`
	MountPoints   []MountPoint         `xml:"MountPoints>MountPoint,omitempty"`
	BuildProgress []BuildProgressModel `xml:"BuildProgressModels>Model,omitempty"`
	BlockPairName string               `xml:"BlockPairName,omitempty"`
}

// DefinitionID identifies a definition.
type DefinitionID struct {
	TypeID    string `xml:"TypeId"`
	SubtypeID string `xml:"SubtypeId"`
}

// Vector3I is an integer vector written as attributes.
type Vector3I struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
	Z int `xml:"z,attr"`
}

// MountPoint references an object whose faces describe where the block mounts.
type MountPoint struct {
	Object string `xml:"Object,attr"`
}

// BuildProgressModel is a construction stage.
type BuildProgressModel struct {
	UpperBound string `xml:"BuildPercentUpperBound,attr"`
	File       string `xml:"File,attr"`
}

const (
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNamespace = "http://www.w3.org/2001/XMLSchema"
)

// NewDefinitions builds one definition per exported block size.
func NewDefinitions(sc *scene.Scene, job BlockJob) Definitions {
	defs := Definitions{XSI: xsiNamespace, XSD: xsdNamespace}
	d := sc.Settings.Dimensions
	pair := strings.ReplaceAll(strings.TrimSpace(sc.Name), " ", "_")

	for _, size := range sc.Settings.Sizes() {
		def := BlockDefinition{
			ID:            DefinitionID{TypeID: "CubeBlock", SubtypeID: sc.SubtypeID(size)},
			CubeSize:      cubeSize(size),
			BlockTopology: "TriangleMesh",
			Size:          Vector3I{X: d[0], Y: d[1], Z: d[2]},
			Model:         ModelRef(sc, size, job.MainModel),
			BlockPairName: pair,
		}
		for _, mp := range job.MountPoints {
			def.MountPoints = append(def.MountPoints, MountPoint{Object: mp})
		}
		for i, stage := range job.Stages {
			bound := float64(i+1) / float64(len(job.Stages))
			def.BuildProgress = append(def.BuildProgress, BuildProgressModel{
				UpperBound: strconv.FormatFloat(bound, 'f', 2, 64),
				File:       ModelRef(sc, size, stage),
			})
		}
		defs.CubeBlocks = append(defs.CubeBlocks, def)
	}
	return defs
}

func cubeSize(size scene.BlockSize) string {
	if size == scene.SizeSmall {
		return "Small"
	}
	return "Large"
}

// ModelRef is the game's content path of a model: the export path, the size directory and the file.
func ModelRef(sc *scene.Scene, size scene.BlockSize, model string) string {
	base := strings.TrimPrefix(sc.Settings.ExportPath, "//")
	parts := strings.FieldsFunc(base, func(r rune) bool { return r == '/' || r == '\\' })
	parts = append(parts, SizeDir(size), model+".mwm")
	return strings.Join(parts, `\`)
}

// Encode renders the document with an XML header.
func (d Definitions) Encode() ([]byte, error) {
	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// DefinitionsPath is the file the definitions of sc are written to.
func (c *Context) DefinitionsPath() string {
	name := strings.ReplaceAll(strings.TrimSpace(c.Scene.Name), " ", "_")
	return filepath.Join(c.OutputDir, name+".sbc")
}

// ExportDefinitions writes the block definitions, keeping unrelated definitions
// already present in the file.
func ExportDefinitions(ctx context.Context, ec *Context, job BlockJob) (string, error) {
	if job.MainModel == "" {
		return "", fmt.Errorf("block definition %s: %w", job.Node, domain.ErrNotReady)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defs := NewDefinitions(ec.Scene, job)
	path := ec.DefinitionsPath()
	if err := checkFileName(filepath.Base(path)); err != nil || filepath.Dir(path) != filepath.Clean(ec.OutputDir) {
		return "", fmt.Errorf("block definition %s: %w: %q", job.Node, domain.ErrInvalidFileName, ec.Scene.Name)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read definitions: %w", err)
	}

	var doc []byte
	if len(existing) > 0 {
		doc, err = MergeDefinitions(existing, defs)
	} else {
		doc, err = defs.Encode()
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("failed to write definitions: %w", err)
	}
	ec.AddArtifact(job.Node, domain.ArtifactDefinition, path)
	return path, nil
}

// definitionSpan locates one CubeBlocks definition in a source document.
type definitionSpan struct {
	subtype string
	start   int64 // first byte of the element
	tagEnd  int64 // first byte after the start tag
	end     int64 // first byte after the element
}

// definitionLayout is where MergeDefinitions splices a source document.
type definitionLayout struct {
	defs []definitionSpan
	// cubeStart and cubeEnd bound the last CubeBlocks start tag; cubeEnd is -1 without one.
	cubeStart, cubeEnd int64
	cubeSelfClosing    bool
	// insertAt follows the last definition of the last CubeBlocks section.
	insertAt int64
	rootEnd  int64
}

type rawDefinition struct {
	ID DefinitionID `xml:"Id"`
}

func scanDefinitions(src []byte) (definitionLayout, error) {
	l := definitionLayout{cubeEnd: -1, rootEnd: -1}
	dec := xml.NewDecoder(bytes.NewReader(src))
	var stack []string
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 2 && stack[1] == "CubeBlocks" && t.Name.Local == "Definition" {
				tagEnd := dec.InputOffset()
				var raw rawDefinition
				if err := dec.DecodeElement(&raw, &t); err != nil {
					return l, err
				}
				l.defs = append(l.defs, definitionSpan{subtype: raw.ID.SubtypeID, start: offset, tagEnd: tagEnd, end: dec.InputOffset()})
				l.insertAt = dec.InputOffset()
				continue
			}
			stack = append(stack, t.Name.Local)
			if len(stack) == 2 && t.Name.Local == "CubeBlocks" {
				l.cubeStart, l.cubeEnd = offset, dec.InputOffset()
				l.cubeSelfClosing = bytes.HasSuffix(src[offset:l.cubeEnd], []byte("/>"))
				l.insertAt = l.cubeEnd
			}
		case xml.EndElement:
			if len(stack) == 1 {
				l.rootEnd = offset
			}
			stack = stack[:len(stack)-1]
		}
	}
	if l.rootEnd < 0 {
		return l, errors.New("no root element")
	}
	return l, nil
}

// lineIndent returns the blanks between the start of the line and pos.
func lineIndent(src []byte, pos int64) string {
	i := pos
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i > 0 && src[i-1] != '\n' {
		return ""
	}
	return string(src[i:pos])
}

// encodeDefinition renders d as a Definition element whose first line is not indented.
func encodeDefinition(d BlockDefinition, indent string) ([]byte, error) {
	out, err := xml.MarshalIndent(d, indent, "  ")
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(out, []byte(indent)), nil
}

// MergeDefinitions replaces the definitions of existing whose subtype id is in defs
// and appends the others to the last CubeBlocks section. Everything else in
// existing, other blocks and the start tags of replaced ones included, is copied
// byte for byte.
func MergeDefinitions(existing []byte, defs Definitions) ([]byte, error) {
	l, err := scanDefinitions(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to parse existing definitions: %w", err)
	}

	fresh := make(map[string]BlockDefinition, len(defs.CubeBlocks))
	for _, d := range defs.CubeBlocks {
		fresh[d.ID.SubtypeID] = d
	}

	indent := "    "
	if len(l.defs) > 0 {
		indent = lineIndent(existing, l.defs[0].start)
	}

	var buf bytes.Buffer
	pos := int64(0)
	written := make(map[string]bool)
	for _, span := range l.defs {
		d, ok := fresh[span.subtype]
		if !ok || written[span.subtype] {
			continue
		}
		out, err := encodeDefinition(d, lineIndent(existing, span.start))
		if err != nil {
			return nil, err
		}
		// Keep the original start tag and its attributes, such as xsi:type.
		tag := existing[span.start:span.tagEnd]
		if bytes.HasSuffix(tag, []byte("/>")) {
			tag = append(bytes.Clone(bytes.TrimRight(bytes.TrimSuffix(tag, []byte("/>")), " ")), '>')
		}
		out = bytes.TrimPrefix(out, []byte("<Definition>"))

		buf.Write(existing[pos:span.start])
		buf.Write(tag)
		buf.Write(out)
		pos = span.end
		written[span.subtype] = true
	}

	var added bytes.Buffer
	for _, d := range defs.CubeBlocks {
		if written[d.ID.SubtypeID] {
			continue
		}
		out, err := encodeDefinition(d, indent)
		if err != nil {
			return nil, err
		}
		added.WriteString("\n" + indent)
		added.Write(out)
	}

	switch {
	case added.Len() == 0:
	case l.cubeEnd < 0:
		buf.Write(existing[pos:l.rootEnd])
		buf.WriteString("  <CubeBlocks>")
		buf.Write(added.Bytes())
		buf.WriteString("\n  </CubeBlocks>\n")
		pos = l.rootEnd
	case l.cubeSelfClosing:
		cubeIndent := lineIndent(existing, l.cubeStart)
		buf.Write(existing[pos:l.cubeStart])
		buf.WriteString("<CubeBlocks>")
		buf.Write(added.Bytes())
		buf.WriteString("\n" + cubeIndent + "</CubeBlocks>")
		pos = l.cubeEnd
	default:
		buf.Write(existing[pos:l.insertAt])
		buf.Write(added.Bytes())
		pos = l.insertAt
	}
	buf.Write(existing[pos:])
	return buf.Bytes(), nil
}
