// Package parse turns legislation CLML XML, amendment HTML, and caselaw
// XML/HTML documents into the typed records and Markdown bodies the rest
// of the system stores, grounded on original_source's
// legislation/parser/xml_to_text_parser.py and amendment/parser.py.
package parse

import (
	"encoding/xml"
	"io"
	"strings"
)

// Node is a generic, order-preserving XML tree. No pack example ships an
// XML-DOM library (antchfx/etree/clbanning are all absent from the
// corpus), so this is a small tree built directly on encoding/xml's
// streaming Decoder — the stdlib's token stream is the only way to
// preserve interleaved text/element ordering the CLML grammar depends on
// (see DESIGN.md).
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []any // element: *Node, text: string
}

// ParseXML decodes r into a Node tree rooted at the document element.
func ParseXML(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: attrsToMap(t.Attr)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, string(t))
			}
		}
	}
	return root, nil
}

func attrsToMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// Text concatenates all descendant text content, matching bs4's .text.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		switch v := c.(type) {
		case string:
			sb.WriteString(v)
		case *Node:
			v.writeText(sb)
		}
	}
}

// Find returns the first descendant (depth-first) with the given tag name,
// matching bs4's .find(name).
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		child, ok := c.(*Node)
		if !ok {
			continue
		}
		if child.Name == name {
			return child
		}
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant with the given tag name, in document
// order, matching bs4's .find_all(name).
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.findAll(name, &out)
	return out
}

func (n *Node) findAll(name string, out *[]*Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		child, ok := c.(*Node)
		if !ok {
			continue
		}
		if child.Name == name {
			*out = append(*out, child)
		}
		child.findAll(name, out)
	}
}

// ChildElements returns only the element children, in document order,
// matching bs4's [c for c in element.children if isinstance(c, Tag)].
func (n *Node) ChildElements() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Attr returns an attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}
