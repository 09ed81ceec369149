package workflow

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrMalformedMarkup reports workflow markup that cannot be parsed into a
// valid tool sequence.
var ErrMalformedMarkup = errors.New("malformed workflow markup")

// element is a generic XML node. InnerXML keeps the raw bytes of the node
// body so accepted tools can carry their original markup into prompts.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	InnerXML []byte     `xml:",innerxml"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

// Parse extracts the supported tools from a workflow markup document and
// returns them sorted by ascending tool ID. Node elements of unsupported
// types are skipped; they are not an error.
func Parse(markup string) ([]Tool, error) {
	var root element
	if err := xml.Unmarshal([]byte(markup), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMarkup, err)
	}
	var tools []Tool
	for i := range root.Children {
		if err := collectTools(&root.Children[i], &tools); err != nil {
			return nil, err
		}
	}
	seen := make(map[int]bool, len(tools))
	for _, tool := range tools {
		if seen[tool.ID] {
			return nil, fmt.Errorf("%w: duplicate tool ID %d", ErrMalformedMarkup, tool.ID)
		}
		seen[tool.ID] = true
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].ID < tools[j].ID })
	return tools, nil
}

// collectTools walks the element tree depth-first and appends every accepted
// Node element, including nodes nested inside other nodes.
func collectTools(el *element, tools *[]Tool) error {
	if el.XMLName.Local == "Node" {
		tool, ok, err := toolFromNode(el)
		if err != nil {
			return err
		}
		if ok {
			*tools = append(*tools, tool)
		}
	}
	for i := range el.Children {
		if err := collectTools(&el.Children[i], tools); err != nil {
			return err
		}
	}
	return nil
}

func toolFromNode(el *element) (Tool, bool, error) {
	kind := Kind(attrValue(el.Attrs, "Type"))
	if kind != KindSelect && kind != KindFilter {
		return Tool{}, false, nil
	}
	rawID := attrValue(el.Attrs, "ToolID")
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return Tool{}, false, fmt.Errorf("%w: %s node has invalid ToolID %q", ErrMalformedMarkup, kind, rawID)
	}
	tool := Tool{ID: id, Kind: kind, RawMarkup: renderElement(el)}
	switch kind {
	case KindSelect:
		if fields := el.find("Fields"); fields != nil {
			for i := range fields.Children {
				field := &fields.Children[i]
				if field.XMLName.Local != "Field" {
					continue
				}
				tool.Fields = append(tool.Fields, FieldSpec{
					Name:     attrValue(field.Attrs, "Name"),
					Selected: attrValue(field.Attrs, "Selected") == "True",
					Rename:   attrValue(field.Attrs, "Rename"),
				})
			}
		}
	case KindFilter:
		if expr := el.find("Expression"); expr != nil {
			tool.Expression = expr.Text
		}
	}
	return tool, true, nil
}

// find returns the first descendant element with the given local name.
func (el *element) find(name string) *element {
	for i := range el.Children {
		child := &el.Children[i]
		if child.XMLName.Local == name {
			return child
		}
		if found := child.find(name); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// renderElement serializes a node back to XML. Attributes keep document
// order and the body is emitted from the captured inner bytes, so the result
// matches the source markup up to start-tag normalization.
func renderElement(el *element) string {
	var buf bytes.Buffer
	buf.WriteByte('<')
	buf.WriteString(el.XMLName.Local)
	for _, attr := range el.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attr.Name.Local)
		buf.WriteString(`="`)
		_ = xml.EscapeText(&buf, []byte(attr.Value))
		buf.WriteByte('"')
	}
	if len(el.InnerXML) == 0 {
		buf.WriteString(" />")
		return buf.String()
	}
	buf.WriteByte('>')
	buf.Write(el.InnerXML)
	buf.WriteString("</")
	buf.WriteString(el.XMLName.Local)
	buf.WriteByte('>')
	return buf.String()
}
