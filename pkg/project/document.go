package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"gopkg.in/yaml.v3"
)

// startOfDocument is where findings point when a property path is absent.
var startOfDocument = core.Position{Line: 1, Character: 1}

// Document is one parsed configuration file of the project.
//
// JSON is a subset of YAML flow syntax, so the file is parsed into a yaml.Node
// tree which keeps the line/column of every key. Comments and tabs (allowed in
// tsconfig-style JSONC, rejected by YAML) are blanked out beforehand without
// shifting any offsets.
type Document struct {
	Path string // project-relative path, e.g. "./config/sass.json"
	Raw  []byte
	Data any

	root *yaml.Node
}

// ParseError reports a project file that is not valid JSON.
type ParseError struct {
	Path   string
	Line   int // 0 when unknown
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s: invalid JSON at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: invalid JSON: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDocument parses raw JSON (comments allowed) into a Document.
//
// YAML rejects two things JSON allows: duplicate keys (the last one wins in
// JSON) and implicit keys longer than 1024 characters. Such documents are
// decoded with encoding/json instead. Their positions come from the YAML
// tree when it could still be built, else every position is the start of
// the document.
func ParseDocument(path string, raw []byte) (*Document, error) {
	clean := sanitizeJSON(raw)
	doc := &Document{Path: path, Raw: raw}

	var node yaml.Node
	if err := yaml.Unmarshal(clean, &node); err == nil {
		if len(node.Content) == 0 {
			return doc, nil
		}
		doc.root = node.Content[0]
		if err := doc.root.Decode(&doc.Data); err == nil {
			return doc, nil
		}
	}

	doc.Data = nil
	if err := json.Unmarshal(clean, &doc.Data); err != nil {
		return nil, newParseError(path, clean, err)
	}
	return doc, nil
}

func newParseError(path string, data []byte, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		prefix := data[:min(int(syntax.Offset), len(data))]
		pe.Line = bytes.Count(prefix, []byte("\n")) + 1
		pe.Column = len(prefix) - bytes.LastIndexByte(prefix, '\n') - 1
	}
	return pe
}

// SplitPath splits a dotted property path into segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get returns the decoded value at the dotted property path.
func (d *Document) Get(path string) (any, bool) {
	return d.GetSegments(SplitPath(path)...)
}

// GetSegments returns the decoded value at the given path segments.
// Segments are needed when a key itself contains dots (package names often do).
func (d *Document) GetSegments(segments ...string) (any, bool) {
	if d == nil {
		return nil, false
	}
	cur := d.Data
	for _, seg := range segments {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the string value at the given path segments.
func (d *Document) GetString(segments ...string) (string, bool) {
	v, ok := d.GetSegments(segments...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetMap returns the object at the given path segments.
func (d *Document) GetMap(segments ...string) (map[string]any, bool) {
	v, ok := d.GetSegments(segments...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Position resolves a dotted property path to a best-effort source position.
func (d *Document) Position(path string) core.Position {
	return d.PositionOf(SplitPath(path)...)
}

// PositionOf resolves path segments to the position of the deepest existing key.
// When not even the first segment exists the start of the document is returned.
func (d *Document) PositionOf(segments ...string) core.Position {
	if d == nil || d.root == nil {
		return startOfDocument
	}

	pos := startOfDocument
	cur := d.root
	for _, seg := range segments {
		key, val := child(cur, seg)
		if val == nil {
			break
		}
		if key != nil {
			pos = core.Position{Line: key.Line, Character: key.Column}
		} else {
			pos = core.Position{Line: val.Line, Character: val.Column}
		}
		cur = val
	}
	return pos
}

// child returns the key and value nodes of seg inside n.
// For sequences the key is nil and seg must be an index.
func child(n *yaml.Node, seg string) (*yaml.Node, *yaml.Node) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == seg {
				return n.Content[i], n.Content[i+1]
			}
		}
	case yaml.SequenceNode:
		i, err := strconv.Atoi(seg)
		if err == nil && i >= 0 && i < len(n.Content) {
			return nil, n.Content[i]
		}
	}
	return nil, nil
}

// sanitizeJSON blanks out comments, tabs and a leading BOM outside of strings.
// Every removed byte is replaced by a space (newlines are kept) so that line
// and column numbers reported by the parser match the original file.
func sanitizeJSON(raw []byte) []byte {
	out := bytes.Clone(raw)
	if bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		out = out[3:]
	}

	inString := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
		case c == '\t' || c == '\r':
			out[i] = ' '
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		}
	}
	return out
}
