package normalize

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const namespaceXML = "http://www.w3.org/XML/1998/namespace"

var (
	ErrMalformed      = errors.New("malformed xml")
	ErrMissingElement = errors.New("missing element")
)

// Node is an element of a parsed response. It keeps the prefix as written in the
// document next to the namespace it resolves to.
type Node struct {
	Prefix   string
	Space    string
	Local    string
	Text     string // character data before the first child element
	Children []*Node
}

// Tag returns the element name as written, e.g. "ns1:HostName" or "HostName".
func (n *Node) Tag() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Matcher selects nodes for the find helpers.
type Matcher func(*Node) bool

// Named matches elements with the local name in any of the given namespaces.
// Pass "" to accept unqualified elements.
func Named(local string, spaces ...string) Matcher {
	return func(n *Node) bool {
		if n.Local != local {
			return false
		}
		for _, s := range spaces {
			if n.Space == s {
				return true
			}
		}
		return false
	}
}

// FindAll returns every matching descendant in document order.
func (n *Node) FindAll(m Matcher) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if m(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// ChildrenMatching returns the matching direct children in document order.
func (n *Node) ChildrenMatching(m Matcher) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if m(c) {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first matching direct child, or nil.
func (n *Node) Child(m Matcher) *Node {
	for _, c := range n.Children {
		if m(c) {
			return c
		}
	}
	return nil
}

type scope struct {
	node     *Node
	bindings map[string]string
}

var utf8BOM = []byte("\xef\xbb\xbf")

// Parse reads a complete XML document into a tree. Namespace prefixes are resolved
// against the declarations in scope; truncated or malformed input fails.
func Parse(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		root  *Node
		stack []scope
	)
	resolve := func(prefix string) (string, bool) {
		if prefix == "xml" {
			return namespaceXML, true
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if uri, ok := stack[i].bindings[prefix]; ok {
				return uri, true
			}
		}
		return "", prefix == ""
	}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("%w: more than one root element", ErrMalformed)
			}
			bindings := make(map[string]string)
			for _, attr := range t.Attr {
				switch {
				case attr.Name.Space == "xmlns":
					bindings[attr.Name.Local] = attr.Value
				case attr.Name.Space == "" && attr.Name.Local == "xmlns":
					bindings[""] = attr.Value
				}
			}
			node := &Node{Prefix: t.Name.Space, Local: t.Name.Local}
			stack = append(stack, scope{node: node, bindings: bindings})
			space, ok := resolve(node.Prefix)
			if !ok {
				return nil, fmt.Errorf("%w: unbound prefix %q on <%s>", ErrMalformed, node.Prefix, node.Tag())
			}
			node.Space = space
			if len(stack) == 1 {
				root = node
			} else {
				parent := stack[len(stack)-2].node
				parent.Children = append(parent.Children, node)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected end element </%s>", ErrMalformed, t.Name.Local)
			}
			top := stack[len(stack)-1].node
			if top.Prefix != t.Name.Space || top.Local != t.Name.Local {
				return nil, fmt.Errorf("%w: element <%s> closed by </%s>", ErrMalformed, top.Tag(), (&Node{Prefix: t.Name.Space, Local: t.Name.Local}).Tag())
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("%w: text outside the root element", ErrMalformed)
				}
				continue
			}
			top := stack[len(stack)-1].node
			if len(top.Children) == 0 {
				top.Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: document ends inside <%s>", ErrMalformed, stack[len(stack)-1].node.Tag())
	}
	return root, nil
}

func missing(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingElement, path)
}
