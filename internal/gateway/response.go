package gateway

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"golang.org/x/net/html/charset"
)

// ParseMerchantUpdateResponse extracts ResponseCode and ResponseText from a
// Partner Portal reply. It never fails: unusable input is reported through the
// Unknown and Parse Error codes.
func ParseMerchantUpdateResponse(raw []byte) models.UpdateResult {
	code, text, err := scanResponse(raw)
	if err != nil {
		return models.UpdateResult{
			ResponseCode: domain.ResponseCodeParseError,
			ResponseText: "Error parsing response: " + err.Error(),
		}
	}
	if code == nil || text == nil {
		return models.UpdateResult{
			ResponseCode: domain.ResponseCodeUnknown,
			ResponseText: "Could not parse response",
		}
	}
	return models.UpdateResult{
		ResponseCode: *code,
		ResponseText: *text,
		Parsed:       true,
		Succeeded:    *code == domain.ResponseCodeSuccess,
	}
}

// scanResponse walks the whole document so that malformed XML is rejected
// even when the response elements appear before the error.
func scanResponse(raw []byte) (code, text *string, err error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	// Replies may declare a legacy encoding such as ISO-8859-1.
	dec.CharsetReader = charset.NewReaderLabel
	depth, roots := 0, 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return nil, nil, errors.New("junk after document element")
				}
			}
			target := responseField(t.Name, &code, &text)
			if target == nil {
				depth++
				continue
			}
			var v string
			if err := dec.DecodeElement(&v, &t); err != nil {
				return nil, nil, err
			}
			*target = &v
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, nil, errors.New("syntax error: text outside document element")
			}
		}
	}

	if roots == 0 {
		return nil, nil, errors.New("no element found")
	}
	return code, text, nil
}

// responseField returns where to store the element's text, or nil when the
// element is not a first occurrence of ResponseCode or ResponseText.
func responseField(name xml.Name, code, text **string) **string {
	if name.Space != vendorNamespace {
		return nil
	}
	switch {
	case name.Local == "ResponseCode" && *code == nil:
		return code
	case name.Local == "ResponseText" && *text == nil:
		return text
	}
	return nil
}
