package plugin

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseParams parses a parameter clause without its enclosing parentheses:
// a comma separated list of key=value or key:value pairs. Keys are
// identifiers or quoted strings. Values are integers, floats, quoted strings,
// True, False, None and bracketed or parenthesized lists of values.
func ParseParams(src string) (Params, error) {
	p := &literalParser{src: src}
	out := make(Params)
	p.skipSpace()
	for !p.eof() {
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume('=') && !p.consume(':') {
			return nil, p.errorf("expected = or : after %s", key)
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, p.errorf("repeated parameter %s", key)
		}
		out[key] = val
		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.consume(',') {
			return nil, p.errorf("expected , after value of %s", key)
		}
		p.skipSpace()
	}
	return out, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) eof() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s at offset %d", fmt.Sprintf(format, args...), p.pos)
}

func (p *literalParser) key() (string, error) {
	if c := p.peek(); c == '\'' || c == '"' {
		return p.quoted()
	}
	word := p.word()
	if word == "" {
		return "", p.errorf("expected a parameter name")
	}
	if c := word[0]; c >= '0' && c <= '9' {
		return "", p.errorf("parameter name %s must not start with a digit", word)
	}
	return word, nil
}

func (p *literalParser) word() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c != '_' && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case p.eof():
		return nil, p.errorf("expected a value")
	case c == '\'' || c == '"':
		return p.quoted()
	case c == '[':
		p.pos++
		return p.list(']')
	case c == '(':
		p.pos++
		return p.list(')')
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	}
	switch w := p.word(); w {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "none", "null":
		return nil, nil
	case "":
		return nil, p.errorf("unexpected character %q", p.peek())
	default:
		return nil, p.errorf("unknown name %s", w)
	}
}

func (p *literalParser) list(closer byte) ([]any, error) {
	items := []any{}
	for {
		p.skipSpace()
		if p.consume(closer) {
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if p.consume(closer) {
			return items, nil
		}
		if !p.consume(',') {
			return nil, p.errorf("expected , or %c in list", closer)
		}
	}
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	for !p.eof() && strings.IndexByte("+-0123456789.eE_", p.src[p.pos]) >= 0 {
		p.pos++
	}
	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if n, err := strconv.ParseInt(text, 10, 0); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid number %s", p.src[start:p.pos])
	}
	return f, nil
}

func (p *literalParser) quoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.eof() {
				return "", p.errorf("unterminated string")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}
