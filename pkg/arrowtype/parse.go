// Package arrowtype parses compact Arrow type names such as "int64",
// "list<utf8>", "fixed_size_list<float64, 3>", and
// "struct<a: int64, b: list<utf8>>".
package arrowtype

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/hashicorp/golang-lru/arc/v2"
)

var primitives = map[string]arrow.DataType{
	"null":         arrow.Null,
	"bool":         arrow.FixedWidthTypes.Boolean,
	"int8":         arrow.PrimitiveTypes.Int8,
	"int16":        arrow.PrimitiveTypes.Int16,
	"int32":        arrow.PrimitiveTypes.Int32,
	"int64":        arrow.PrimitiveTypes.Int64,
	"uint8":        arrow.PrimitiveTypes.Uint8,
	"uint16":       arrow.PrimitiveTypes.Uint16,
	"uint32":       arrow.PrimitiveTypes.Uint32,
	"uint64":       arrow.PrimitiveTypes.Uint64,
	"float16":      arrow.FixedWidthTypes.Float16,
	"float32":      arrow.PrimitiveTypes.Float32,
	"float64":      arrow.PrimitiveTypes.Float64,
	"date32":       arrow.PrimitiveTypes.Date32,
	"date64":       arrow.PrimitiveTypes.Date64,
	"utf8":         arrow.BinaryTypes.String,
	"string":       arrow.BinaryTypes.String,
	"large_utf8":   arrow.BinaryTypes.LargeString,
	"large_string": arrow.BinaryTypes.LargeString,
	"binary":       arrow.BinaryTypes.Binary,
	"large_binary": arrow.BinaryTypes.LargeBinary,
}

var cache = mustARC(256)

func mustARC(size int) *arc.ARCCache[string, arrow.DataType] {
	c, err := arc.NewARC[string, arrow.DataType](size)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse returns the Arrow type named by s.  Results are cached, so
// repeated names return the same arrow.DataType.
func Parse(s string) (arrow.DataType, error) {
	if typ, ok := cache.Get(s); ok {
		return typ, nil
	}
	p := &parser{src: s}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.skipSpace(); p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	cache.Add(s, typ)
	return typ, nil
}

// ParseSchema returns a schema for a comma-separated list of fields,
// e.g., "id: int64, xs: list<int64>".  Every field is nullable.
func ParseSchema(s string) (*arrow.Schema, error) {
	p := &parser{src: s}
	fields, err := p.parseFields(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return arrow.NewSchema(fields, nil), nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("type %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if !p.accept(c) {
		return p.errorf("expected %q", c)
	}
	return nil
}

func (p *parser) parseType() (arrow.DataType, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("type name expected")
	}
	name = strings.ToLower(name)
	if typ, ok := primitives[name]; ok {
		return typ, nil
	}
	switch name {
	case "list", "large_list", "list_view", "fixed_size_list":
		return p.parseList(name)
	case "struct":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		fields, err := p.parseFields('>')
		if err != nil {
			return nil, err
		}
		return arrow.StructOf(fields...), nil
	}
	return nil, p.errorf("unknown type %q", name)
}

func (p *parser) parseList(name string) (arrow.DataType, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var typ arrow.DataType
	switch name {
	case "list":
		typ = arrow.ListOf(elem)
	case "large_list":
		typ = arrow.LargeListOf(elem)
	case "list_view":
		typ = arrow.ListViewOf(elem)
	case "fixed_size_list":
		if err := p.expect(','); err != nil {
			return nil, err
		}
		p.skipSpace()
		size, err := strconv.ParseInt(p.ident(), 10, 32)
		if err != nil || size < 0 {
			return nil, p.errorf("bad list size")
		}
		typ = arrow.FixedSizeListOf(int32(size), elem)
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return typ, nil
}

// parseFields parses "name: type" pairs separated by commas up to the
// closing byte, or to the end of input when closing is zero.
func (p *parser) parseFields(closing byte) ([]arrow.Field, error) {
	var fields []arrow.Field
	for {
		if closing != 0 && p.accept(closing) {
			return fields, nil
		}
		if closing == 0 {
			if p.skipSpace(); p.pos == len(p.src) {
				return fields, nil
			}
		}
		if len(fields) > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		name := p.ident()
		if name == "" {
			return nil, p.errorf("field name expected")
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: name, Type: typ, Nullable: true})
	}
}
