package workspace

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// BlocklyNS is the namespace Blockly writes on the root <xml> element.
const BlocklyNS = "https://developers.google.com/blockly/xml"

type xmlDoc struct {
	XMLName xml.Name   `xml:"xml"`
	NS      string     `xml:"xmlns,attr,omitempty"`
	Blocks  []xmlBlock `xml:"block"`
}

type xmlBlock struct {
	Type       string       `xml:"type,attr"`
	ID         string       `xml:"id,attr,omitempty"`
	X          string       `xml:"x,attr,omitempty"`
	Y          string       `xml:"y,attr,omitempty"`
	Disabled   string       `xml:"disabled,attr,omitempty"`
	Inline     string       `xml:"inline,attr,omitempty"`
	Mutation   *xmlMutation `xml:"mutation"`
	Fields     []xmlField   `xml:"field"`
	Comment    *xmlComment  `xml:"comment"`
	Values     []xmlInput   `xml:"value"`
	Statements []xmlInput   `xml:"statement"`
	Next       *xmlNext     `xml:"next"`
}

type xmlMutation struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Args  []xmlArg   `xml:"arg"`
}

type xmlArg struct {
	Name string `xml:"name,attr"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlComment struct {
	Pinned string `xml:"pinned,attr,omitempty"`
	Text   string `xml:",chardata"`
}

type xmlInput struct {
	Name   string    `xml:"name,attr"`
	Block  *xmlBlock `xml:"block"`
	Shadow *xmlBlock `xml:"shadow"`
}

type xmlNext struct {
	Block  *xmlBlock `xml:"block"`
	Shadow *xmlBlock `xml:"shadow"`
}

// ReadXML decodes a Blockly XML workspace.
func ReadXML(r io.Reader) (*Workspace, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("workspace: decode xml: %w", err)
	}
	ws := &Workspace{}
	for i := range doc.Blocks {
		b, err := fromXML(&doc.Blocks[i])
		if err != nil {
			return nil, err
		}
		ws.Add(b)
	}
	return ws, nil
}

func ParseXML(data []byte) (*Workspace, error) {
	return ReadXML(bytes.NewReader(data))
}

// LoadFile reads a workspace from a .xml file on disk.
func LoadFile(path string) (*Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("workspace: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadXML(f)
}

func fromXML(xb *xmlBlock) (*Block, error) {
	if xb.Type == "" {
		return nil, fmt.Errorf("workspace: block %q has no type", xb.ID)
	}
	b := &Block{
		ID:       xb.ID,
		Type:     xb.Type,
		Disabled: xb.Disabled == "true",
		Inline:   xb.Inline == "true",
	}
	for _, f := range xb.Fields {
		b.SetField(f.Name, f.Value)
	}
	if xb.Comment != nil {
		b.Comment = xb.Comment.Text
	}
	if xb.Mutation != nil {
		m := &Mutation{Attrs: make(map[string]string)}
		for _, a := range xb.Mutation.Attrs {
			m.Attrs[a.Name.Local] = a.Value
		}
		for _, a := range xb.Mutation.Args {
			m.Args = append(m.Args, a.Name)
		}
		b.Mutation = m
	}

	attachAll := func(inputs []xmlInput, kind InputKind) error {
		for i := range inputs {
			in := &inputs[i]
			src := in.Block
			if src == nil {
				src = in.Shadow
			}
			var child *Block
			if src != nil {
				c, err := fromXML(src)
				if err != nil {
					return err
				}
				child = c
			}
			b.attach(in.Name, kind, child)
		}
		return nil
	}
	if err := attachAll(xb.Values, ValueInput); err != nil {
		return nil, err
	}
	if err := attachAll(xb.Statements, StatementInput); err != nil {
		return nil, err
	}

	if xb.Next != nil {
		src := xb.Next.Block
		if src == nil {
			src = xb.Next.Shadow
		}
		if src != nil {
			next, err := fromXML(src)
			if err != nil {
				return nil, err
			}
			b.WithNext(next)
		}
	}
	return b, nil
}

// WriteXML encodes ws in the Blockly XML format.
func WriteXML(w io.Writer, ws *Workspace) error {
	doc := xmlDoc{NS: BlocklyNS}
	for _, b := range ws.Blocks {
		doc.Blocks = append(doc.Blocks, *toXML(b))
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("workspace: encode xml: %w", err)
	}
	return enc.Flush()
}

// MarshalXML is a convenience wrapper around WriteXML.
func MarshalXML(ws *Workspace) (string, error) {
	var sb strings.Builder
	if err := WriteXML(&sb, ws); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toXML(b *Block) *xmlBlock {
	xb := &xmlBlock{Type: b.Type, ID: b.ID}
	if b.Disabled {
		xb.Disabled = "true"
	}
	if b.Inline {
		xb.Inline = "true"
	}
	for _, f := range b.Fields {
		xb.Fields = append(xb.Fields, xmlField{Name: f.Name, Value: f.Value})
	}
	if b.Comment != "" {
		xb.Comment = &xmlComment{Pinned: "false", Text: b.Comment}
	}
	if b.Mutation != nil {
		m := &xmlMutation{}
		keys := make([]string, 0, len(b.Mutation.Attrs))
		for k := range b.Mutation.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Attrs = append(m.Attrs, xml.Attr{Name: xml.Name{Local: k}, Value: b.Mutation.Attrs[k]})
		}
		for _, a := range b.Mutation.Args {
			m.Args = append(m.Args, xmlArg{Name: a})
		}
		xb.Mutation = m
	}
	for _, in := range b.Inputs {
		xi := xmlInput{Name: in.Name}
		if in.Block != nil {
			xi.Block = toXML(in.Block)
		}
		if in.Kind == StatementInput {
			xb.Statements = append(xb.Statements, xi)
		} else {
			xb.Values = append(xb.Values, xi)
		}
	}
	if b.Next != nil {
		xb.Next = &xmlNext{Block: toXML(b.Next)}
	}
	return xb
}
