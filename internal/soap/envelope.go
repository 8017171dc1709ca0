package soap

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

const (
	NsSOAP11 = "http://schemas.xmlsoap.org/soap/envelope/"
	NsSOAP12 = "http://www.w3.org/2003/05/soap-envelope"
)

// Param is one child element of the request wrapper. Supported values:
// string, []byte (base64), int, int64, bool, []string (repeated element),
// map[string]string (entry/key/value list) and nil (omitted).
type Param struct {
	Name  string
	Value any
}

// Params keeps element order; document/literal schemas are sequences.
type Params []Param

func (p Params) Get(name string) (any, bool) {
	for _, it := range p {
		if it.Name == name {
			return it.Value, true
		}
	}
	return nil, false
}

func (p Params) Names() []string {
	out := make([]string, 0, len(p))
	for _, it := range p {
		out = append(out, it.Name)
	}
	return out
}

func buildEnvelope(namespace, operation string, params Params) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", NsSOAP11)
	env.CreateElement("soapenv:Header")
	body := env.CreateElement("soapenv:Body")

	// only the wrapper is qualified; children stay unqualified
	var wrapper *etree.Element
	if namespace != "" {
		wrapper = body.CreateElement("ns:" + operation)
		wrapper.CreateAttr("xmlns:ns", namespace)
	} else {
		wrapper = body.CreateElement(operation)
	}

	for _, p := range params {
		if err := encodeParam(wrapper, p); err != nil {
			return nil, err
		}
	}

	return doc.WriteToBytes()
}

func encodeParam(parent *etree.Element, p Param) error {
	switch v := p.Value.(type) {
	case nil:
		return nil
	case string:
		parent.CreateElement(p.Name).SetText(v)
	case []byte:
		parent.CreateElement(p.Name).SetText(base64.StdEncoding.EncodeToString(v))
	case int:
		parent.CreateElement(p.Name).SetText(strconv.Itoa(v))
	case int64:
		parent.CreateElement(p.Name).SetText(strconv.FormatInt(v, 10))
	case bool:
		parent.CreateElement(p.Name).SetText(strconv.FormatBool(v))
	case []string:
		for _, s := range v {
			parent.CreateElement(p.Name).SetText(s)
		}
	case map[string]string:
		el := parent.CreateElement(p.Name)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			entry := el.CreateElement("entry")
			entry.CreateElement("key").SetText(k)
			entry.CreateElement("value").SetText(v[k])
		}
	default:
		return fmt.Errorf("param %s: unsupported type %T", p.Name, p.Value)
	}
	return nil
}
