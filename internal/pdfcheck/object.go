package pdfcheck

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind identifies the type of a PDF value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Real
	String
	Name
	Array
	Dict
	Stream
	Ref
)

// Value is any PDF object.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Real  float64
	Str   []byte
	Name  string
	Items []*Value
	Dict  map[string]*Value
	Data  []byte // raw stream bytes
	Ref   ObjRef
}

// ObjRef is an indirect reference "N G R".
type ObjRef struct {
	Num int
	Gen int
}

// Number returns the numeric value of v, or 0.
func (v *Value) Number() float64 {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case Int:
		return float64(v.Int)
	case Real:
		return v.Real
	}
	return 0
}

// Key returns the dictionary entry k, or nil.
func (v *Value) Key(k string) *Value {
	if v == nil || (v.Kind != Dict && v.Kind != Stream) {
		return nil
	}
	return v.Dict[k]
}

// NameOf returns the name stored under k, or "".
func (v *Value) NameOf(k string) string {
	if e := v.Key(k); e != nil && e.Kind == Name {
		return e.Name
	}
	return ""
}

const maxDepth = 100

// parser is a recursive-descent reader of PDF object syntax.
type parser struct {
	buf   []byte
	pos   int
	depth int
}

func (p *parser) eof() bool { return p.pos >= len(p.buf) }

func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.buf[p.pos]; {
		case c == '%':
			for !p.eof() && p.buf[p.pos] != '\n' && p.buf[p.pos] != '\r' {
				p.pos++
			}
		case isSpace(c):
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consume(s string) bool {
	if bytes.HasPrefix(p.buf[p.pos:], []byte(s)) {
		p.pos += len(s)
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return bytes.IndexByte([]byte("()<>[]{}/%"), c) >= 0
}

func (p *parser) word() string {
	start := p.pos
	for !p.eof() && !isSpace(p.buf[p.pos]) && !isDelim(p.buf[p.pos]) {
		p.pos++
	}
	return string(p.buf[start:p.pos])
}

// value parses one object at the current position.
func (p *parser) value() (*Value, error) {
	if p.depth >= maxDepth {
		return nil, fmt.Errorf("pdfcheck: nesting deeper than %d", maxDepth)
	}
	p.depth++
	defer func() { p.depth-- }()

	p.skipSpace()
	if p.eof() {
		return &Value{}, nil
	}
	switch c := p.buf[p.pos]; {
	case p.consume("<<"):
		return p.dict()
	case c == '<':
		return p.hexString(), nil
	case c == '(':
		return p.literal(), nil
	case c == '/':
		p.pos++
		return &Value{Kind: Name, Name: unescapeName(p.word())}, nil
	case c == '[':
		return p.array()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return p.number(), nil
	case p.consume("true"):
		return &Value{Kind: Bool, Bool: true}, nil
	case p.consume("false"):
		return &Value{Kind: Bool}, nil
	default:
		// null, unknown keywords and stray delimiters
		if p.word() == "" {
			p.pos++
		}
		return &Value{}, nil
	}
}

func (p *parser) array() (*Value, error) {
	p.pos++
	v := &Value{Kind: Array}
	for {
		p.skipSpace()
		if p.eof() {
			return v, nil
		}
		if p.buf[p.pos] == ']' {
			p.pos++
			return v, nil
		}
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		v.Items = append(v.Items, item)
	}
}

func (p *parser) dict() (*Value, error) {
	v := &Value{Kind: Dict, Dict: map[string]*Value{}}
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if p.consume(">>") {
			break
		}
		if p.buf[p.pos] != '/' {
			p.pos++
			continue
		}
		p.pos++
		key := unescapeName(p.word())
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		v.Dict[key] = item
	}

	save := p.pos
	p.skipSpace()
	if !p.consume("stream") {
		p.pos = save
		return v, nil
	}
	p.consume("\r")
	p.consume("\n")
	start := p.pos
	n := -1
	if l := v.Dict["Length"]; l != nil && l.Kind == Int {
		n = int(l.Int)
	}
	if n < 0 || start+n > len(p.buf) {
		end := bytes.Index(p.buf[start:], []byte("endstream"))
		if end < 0 {
			end = len(p.buf) - start
		}
		n = end
	}
	v.Kind = Stream
	v.Data = p.buf[start : start+n]
	p.pos = start + n
	p.skipSpace()
	p.consume("endstream")
	return v, nil
}

// number parses an integer, a real, or an "N G R" reference.
func (p *parser) number() *Value {
	tok := p.word()
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(tok, 64)
		return &Value{Kind: Real, Real: f}
	}

	after := p.pos
	p.skipSpace()
	if g, err := strconv.ParseInt(p.word(), 10, 64); err == nil {
		p.skipSpace()
		if !p.eof() && p.buf[p.pos] == 'R' &&
			(p.pos+1 == len(p.buf) || isSpace(p.buf[p.pos+1]) || isDelim(p.buf[p.pos+1])) {
			p.pos++
			return &Value{Kind: Ref, Ref: ObjRef{Num: int(n), Gen: int(g)}}
		}
	}
	p.pos = after
	return &Value{Kind: Int, Int: n}
}

func (p *parser) literal() *Value {
	p.pos++
	var out bytes.Buffer
	for depth := 1; !p.eof(); {
		c := p.buf[p.pos]
		p.pos++
		switch c {
		case '\\':
			if p.eof() {
				break
			}
			e := p.buf[p.pos]
			p.pos++
			switch e {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case '\n', '\r':
			default:
				out.WriteByte(e)
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Value{Kind: String, Str: out.Bytes()}
			}
		}
		out.WriteByte(c)
	}
	return &Value{Kind: String, Str: out.Bytes()}
}

func (p *parser) hexString() *Value {
	p.pos++
	var digits []byte
	for !p.eof() && p.buf[p.pos] != '>' {
		if c := p.buf[p.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		p.pos++
	}
	p.consume(">")
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexNibble(digits[2*i])<<4 | hexNibble(digits[2*i+1])
	}
	return &Value{Kind: String, Str: out}
}

func hexNibble(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// unescapeName decodes #xx escapes in a name.
func unescapeName(s string) string {
	if !bytes.ContainsRune([]byte(s), '#') {
		return s
	}
	var out bytes.Buffer
	for i := 0; i < len(s); i++ {
		if s[i] == '#' && i+2 < len(s) {
			out.WriteByte(hexNibble(s[i+1])<<4 | hexNibble(s[i+2]))
			i += 2
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}
