package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tdisc/internal/domain"
)

const (
	nodeGroup      = "Group"
	nodeTestCase   = "TestCase"
	nodeName       = "Name"
	nodeTags       = "Tags"
	nodeTag        = "Tag"
	nodeSourceInfo = "SourceInfo"
	nodeFile       = "File"
	nodeLine       = "Line"

	attrName     = "name"
	attrFilename = "filename"
	attrLine     = "line"
	attrTags     = "tags"
)

// xmlNode is a generic element tree; the report layout varies between reporters
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// find returns the first element with the given name in document order
func (n *xmlNode) find(name string) *xmlNode {
	if n.XMLName.Local == name {
		return n
	}
	for i := range n.Children {
		if found := n.Children[i].find(name); found != nil {
			return found
		}
	}
	return nil
}

// XMLParser parses the XML discovery report
type XMLParser struct{}

// NewXMLParser creates a new XMLParser
func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

// Parse extracts test cases from the TestCase children of the report's first Group element
func (p *XMLParser) Parse(output, source string) ([]domain.TestCase, error) {
	root, err := decodeDocument(output)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	group := root.find(nodeGroup)
	if group == nil {
		return nil, ErrMissingGroup
	}

	var tests []domain.TestCase
	for i := range group.Children {
		child := &group.Children[i]
		if child.XMLName.Local != nodeTestCase {
			continue
		}
		testcase := reportedTestCase(child, source)
		if testcase.Name == "" {
			continue
		}
		tests = append(tests, testcase)
	}
	return tests, nil
}

// decodeDocument requires exactly one root element with nothing but
// whitespace, comments or processing instructions around it.
func decodeDocument(output string) (*xmlNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(output))

	var root *xmlNode
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			if root == nil {
				return nil, errors.New("root element is missing")
			}
			return root, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, fmt.Errorf("multiple root elements: %s", t.Name.Local)
			}
			root = &xmlNode{}
			if err := decoder.DecodeElement(root, &t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text outside root element")
			}
		}
	}
}

func reportedTestCase(node *xmlNode, source string) domain.TestCase {
	testcase := domain.TestCase{Source: source, Tags: []string{}}

	if name, ok := node.attr(attrName); ok {
		testcase.Name = name
	} else if n := node.child(nodeName); n != nil {
		testcase.Name = strings.TrimSpace(n.Text)
	}

	filename, hasFilename := node.attr(attrFilename)
	line, hasLine := node.attr(attrLine)
	if info := node.child(nodeSourceInfo); info != nil {
		if f := info.child(nodeFile); f != nil && !hasFilename {
			filename = strings.TrimSpace(f.Text)
		}
		if l := info.child(nodeLine); l != nil && !hasLine {
			line = l.Text
		}
	}
	testcase.Filename = filename
	testcase.Line = parseLine(line)

	if tagstr, ok := node.attr(attrTags); ok {
		testcase.Tags = append(testcase.Tags, ExtractTags(tagstr)...)
	}
	if tags := node.child(nodeTags); tags != nil {
		testcase.Tags = append(testcase.Tags, nestedTags(tags)...)
	}

	return testcase
}

// nestedTags reads <Tags><Tag>a</Tag></Tags> as well as <Tags>[a][b]</Tags>
func nestedTags(tags *xmlNode) []string {
	var result []string
	for i := range tags.Children {
		tag := &tags.Children[i]
		if tag.XMLName.Local != nodeTag {
			continue
		}
		text := strings.TrimSpace(tag.Text)
		if strings.ContainsAny(text, "[]") {
			result = append(result, ExtractTags(text)...)
			continue
		}
		if text != "" {
			result = append(result, text)
		}
	}
	if len(result) == 0 {
		result = ExtractTags(strings.TrimSpace(tags.Text))
	}
	return result
}

func parseLine(s string) int {
	line, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || line < 0 {
		return 0
	}
	return line
}
