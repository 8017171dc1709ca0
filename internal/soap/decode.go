package soap

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// Object is a decoded response element. Values are string (leaf), nil
// (xsi:nil), Object (nested) or []any (repeated element name).
type Object map[string]any

func decodeResponse(raw []byte) (Object, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil, errors.New("response is not a SOAP envelope")
	}
	body := childByTag(root, "Body")
	if body == nil {
		return nil, errors.New("SOAP envelope has no Body")
	}

	children := body.ChildElements()
	if len(children) == 0 {
		return Object{}, nil
	}
	first := children[0]
	if first.Tag == "Fault" {
		return nil, parseFault(first)
	}

	return toObject(first), nil
}

func toObject(el *etree.Element) Object {
	out := Object{}
	for _, c := range el.ChildElements() {
		v := toValue(c)
		prev, seen := out[c.Tag]
		if !seen {
			out[c.Tag] = v
			continue
		}
		if list, ok := prev.([]any); ok {
			out[c.Tag] = append(list, v)
		} else {
			out[c.Tag] = []any{prev, v}
		}
	}
	return out
}

func toValue(el *etree.Element) any {
	if len(el.ChildElements()) > 0 {
		return toObject(el)
	}
	for _, a := range el.Attr {
		if a.Key == "nil" && (a.Value == "true" || a.Value == "1") {
			return nil
		}
	}
	return el.Text()
}

func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}
