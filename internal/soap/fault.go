package soap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Fault is a SOAP 1.1 or 1.2 fault returned by the remote service.
type Fault struct {
	Code    string
	Message string
	Detail  string
}

func (f *Fault) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return "SOAP fault " + f.Code
}

// HTTPError is a non-2xx response that carried no fault.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("soap: unexpected status %d", e.StatusCode)
}

func parseFault(el *etree.Element) *Fault {
	f := &Fault{}

	// SOAP 1.1
	if c := childByTag(el, "faultcode"); c != nil {
		f.Code = strings.TrimSpace(c.Text())
	}
	if s := childByTag(el, "faultstring"); s != nil {
		f.Message = strings.TrimSpace(s.Text())
	}
	if d := childByTag(el, "detail"); d != nil {
		f.Detail = innerText(d)
	}

	// SOAP 1.2
	if code := childByTag(el, "Code"); code != nil {
		if v := childByTag(code, "Value"); v != nil {
			f.Code = strings.TrimSpace(v.Text())
		}
	}
	if reason := childByTag(el, "Reason"); reason != nil {
		if t := childByTag(reason, "Text"); t != nil {
			f.Message = strings.TrimSpace(t.Text())
		}
	}
	if d := childByTag(el, "Detail"); d != nil {
		f.Detail = innerText(d)
	}

	return f
}

func innerText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		if t := strings.TrimSpace(e.Text()); t != "" {
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(t)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(el)
	return sb.String()
}
