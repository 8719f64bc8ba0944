package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unquoteString decodes the text of a string literal token. Kotlin raw strings
// are returned verbatim. String templates are rejected in Kotlin since they
// are never constant.
func unquoteString(raw string, d Dialect) (string, error) {
	if strings.HasPrefix(raw, `"""`) && len(raw) >= 6 {
		body := raw[3 : len(raw)-3]
		if d == Kotlin {
			if err := checkNoTemplate(body, false); err != nil {
				return "", err
			}
		}
		return body, nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %s", raw)
	}
	body := raw[1 : len(raw)-1]
	if d == Kotlin {
		if err := checkNoTemplate(body, true); err != nil {
			return "", err
		}
	}
	units, err := decodeEscapes(body, d)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// unquoteChar decodes the text of a char literal token into a single UTF-16
// code unit.
func unquoteChar(raw string, d Dialect) (uint16, error) {
	if len(raw) < 3 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return 0, fmt.Errorf("malformed char literal %s", raw)
	}
	units, err := decodeEscapes(raw[1:len(raw)-1], d)
	if err != nil {
		return 0, err
	}
	if len(units) != 1 {
		return 0, fmt.Errorf("char literal %s does not hold exactly one UTF-16 code unit", raw)
	}
	return units[0], nil
}

func decodeEscapes(s string, d Dialect) ([]uint16, error) {
	units := make([]uint16, 0, len(s))
	for len(s) > 0 {
		r, sz := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && sz == 1 {
			return nil, errors.New("literal is not valid UTF-8")
		}
		if r != '\\' {
			units = append(units, utf16.Encode([]rune{r})...)
			s = s[sz:]
			continue
		}
		if len(s) < 2 {
			return nil, errors.New("literal ends with an incomplete escape")
		}
		c := s[1]
		s = s[2:]
		switch c {
		case 'b':
			units = append(units, '\b')
		case 't':
			units = append(units, '\t')
		case 'n':
			units = append(units, '\n')
		case 'r':
			units = append(units, '\r')
		case '"', '\'', '\\':
			units = append(units, uint16(c))
		case 'f', 's':
			if d != Java {
				return nil, fmt.Errorf("invalid escape \\%c", c)
			}
			if c == 'f' {
				units = append(units, '\f')
			} else {
				units = append(units, ' ')
			}
		case '$':
			if d != Kotlin {
				return nil, fmt.Errorf("invalid escape \\%c", c)
			}
			units = append(units, '$')
		case 'u':
			// Java allows any number of 'u' characters in a unicode escape.
			for d == Java && len(s) > 0 && s[0] == 'u' {
				s = s[1:]
			}
			if len(s) < 4 {
				return nil, errors.New("unicode escape requires four hex digits")
			}
			v, err := strconv.ParseUint(s[:4], 16, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid unicode escape \\u%s", s[:4])
			}
			units = append(units, uint16(v))
			s = s[4:]
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if d != Java {
				return nil, fmt.Errorf("invalid escape \\%c", c)
			}
			maxDigits := 2
			if c <= '3' {
				maxDigits = 3
			}
			digits := string(c)
			for len(digits) < maxDigits && len(s) > 0 && s[0] >= '0' && s[0] <= '7' {
				digits += s[:1]
				s = s[1:]
			}
			v, _ := strconv.ParseUint(digits, 8, 16)
			units = append(units, uint16(v))
		default:
			return nil, fmt.Errorf("invalid escape \\%c", c)
		}
	}
	return units, nil
}

func checkNoTemplate(s string, escapes bool) error {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if escapes {
				i++
			}
		case '$':
			if i+1 < len(s) {
				n := s[i+1]
				if n == '{' || n == '_' || (n >= 'a' && n <= 'z') || (n >= 'A' && n <= 'Z') {
					return errors.New("string templates are not constant values")
				}
			}
		}
	}
	return nil
}
