// Package rule implements the label decision core: YAML fragment parsing, value validation and
// label/comment/check-run decisions. Everything here is pure; GitHub access lives in usecase.
package rule

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

var (
	yamlBlockPattern   = regexp.MustCompile("(?ms)```yaml[ \t]*\r?\n(.*?)^[ \t]*```[ \t]*\r?$")
	singleQuotePattern = regexp.MustCompile(`'([^']*)'`)
)

// ExtractYAMLBlock returns the content of the first ```yaml fenced block of text
func ExtractYAMLBlock(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	m := yamlBlockPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	content := strings.TrimSuffix(m[1], "\n")
	content = strings.TrimSuffix(content, "\r")
	return content, true
}

// ParseField parses the first top-level "<field>: value" line of a YAML fragment.
//
// Only a restricted grammar is supported: one field per line, trailing "#" comments (also inside
// quotes), one layer of matching quotes, and single-line JSON style arrays where single quoted
// strings are accepted. Nested brackets, escaped quotes and multi-line arrays are not supported.
func ParseField(fragment, field string) model.FieldValue {
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(field) + `:[ \t]*(.+)$`)
	m := pattern.FindStringSubmatch(fragment)
	if m == nil {
		return model.Absent()
	}

	value := m[1]
	if idx := strings.Index(value, "#"); idx >= 0 {
		value = value[:idx]
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Absent()
	}

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		return parseArray(value)
	}

	value = stripQuotes(value)
	if value == "" {
		return model.Absent()
	}
	return model.Scalar(value)
}

// ParseBodyField extracts the YAML block of a pull request body and parses field from it
func ParseBodyField(body, field string) model.FieldValue {
	fragment, ok := ExtractYAMLBlock(body)
	if !ok {
		return model.Absent()
	}
	return ParseField(fragment, field)
}

func stripQuotes(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func parseArray(raw string) model.FieldValue {
	normalized := singleQuotePattern.ReplaceAllString(raw, `"$1"`)

	dec := json.NewDecoder(bytes.NewReader([]byte(normalized)))
	dec.UseNumber()

	var elements []any
	if err := dec.Decode(&elements); err != nil {
		return model.Malformed(raw)
	}
	if dec.More() {
		return model.Malformed(raw)
	}

	values := []string{}
	for _, e := range elements {
		var s string
		switch v := e.(type) {
		case nil:
			continue
		case string:
			s = v
		case json.Number:
			s = v.String()
		case bool:
			if v {
				s = "true"
			} else {
				s = "false"
			}
		default:
			return model.Malformed(raw)
		}

		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		values = append(values, s)
	}

	field := model.ArrayOf(values...)
	field.Raw = raw
	return field
}
