package pix

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/mogaika/prism_converter/utils"
)

const (
	TOKEN_IDENT = iota
	TOKEN_STRING
	TOKEN_NUMBER
	TOKEN_HEXFLOAT
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_COLON
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_IDENT))
	lexer.Add([]byte(`"(\\.|[^"])*"`), getToken(TOKEN_STRING))
	lexer.Add([]byte(`[\+\-]?[0-9]*\.?[0-9]+([eE][\+\-]?[0-9]+)?`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`&[0-9a-fA-F]+`), getToken(TOKEN_HEXFLOAT))
	lexer.Add([]byte(`[{]`), getToken(TOKEN_LBRACE))
	lexer.Add([]byte(`[}]`), getToken(TOKEN_RBRACE))
	lexer.Add([]byte(`[(]`), getToken(TOKEN_LPAREN))
	lexer.Add([]byte(`[)]`), getToken(TOKEN_RPAREN))
	lexer.Add([]byte(`:`), getToken(TOKEN_COLON))
	lexer.Add([]byte(`#[^\n]*`), skip)
	lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type parser struct {
	tokens []*lexmachine.Token
	pos    int
}

func (p *parser) peek(ahead int) *lexmachine.Token {
	if p.pos+ahead < len(p.tokens) {
		return p.tokens[p.pos+ahead]
	}
	return nil
}

func (p *parser) expect(tokenType int, what string) (*lexmachine.Token, error) {
	tok := p.peek(0)
	if tok == nil {
		return nil, errors.Errorf("Expected %s, got end of file", what)
	}
	if tok.Type != tokenType {
		return nil, errors.Errorf("Expected %s on line %v, got %q", what, tok.StartLine, tok.Lexeme)
	}
	p.pos++
	return tok, nil
}

// Parse reads text in pix block format (pis, pia, pim and so on)
func Parse(text []byte) (*Document, error) {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	p := &parser{tokens: make([]*lexmachine.Token, 0, 256)}
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		p.tokens = append(p.tokens, tok.(*lexmachine.Token))
	}

	doc := &Document{Blocks: make([]*Block, 0)}
	for p.peek(0) != nil {
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

func (p *parser) parseBlock() (*Block, error) {
	name, err := p.expect(TOKEN_IDENT, "block name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_LBRACE, "'{'"); err != nil {
		return nil, err
	}

	b := &Block{Name: string(name.Lexeme), Line: name.StartLine}
	for {
		tok := p.peek(0)
		if tok == nil {
			return nil, errors.Errorf("Block %q from line %d is not closed", b.Name, b.Line)
		}

		switch tok.Type {
		case TOKEN_RBRACE:
			p.pos++
			return b, nil
		case TOKEN_IDENT:
			next := p.peek(1)
			if next != nil && next.Type == TOKEN_LBRACE {
				sub, err := p.parseBlock()
				if err != nil {
					return nil, err
				}
				b.Blocks = append(b.Blocks, sub)
			} else if next != nil && next.Type == TOKEN_COLON {
				attr, err := p.parseAttribute()
				if err != nil {
					return nil, err
				}
				b.Attributes = append(b.Attributes, attr)
			} else {
				return nil, errors.Errorf("Unexpected %q after %q on line %d", lexemeOf(next), tok.Lexeme, tok.StartLine)
			}
		case TOKEN_NUMBER:
			kf, err := p.parseKeyframe()
			if err != nil {
				return nil, err
			}
			b.Keyframes = append(b.Keyframes, kf)
		default:
			return nil, errors.Errorf("Unexpected %q in block %q on line %d", tok.Lexeme, b.Name, tok.StartLine)
		}
	}
}

func lexemeOf(tok *lexmachine.Token) string {
	if tok == nil {
		return "EOF"
	}
	return string(tok.Lexeme)
}

// values of attribute start on the same line as key, only tuples may span lines
func (p *parser) parseAttribute() (*Attribute, error) {
	key := p.tokens[p.pos]
	p.pos += 2

	a := &Attribute{Key: string(key.Lexeme), Line: key.StartLine}
	for tok := p.peek(0); tok != nil && tok.StartLine == key.StartLine; tok = p.peek(0) {
		if tok.Type == TOKEN_RBRACE {
			break
		}
		if tok.Type == TOKEN_IDENT {
			if next := p.peek(1); next != nil && (next.Type == TOKEN_COLON || next.Type == TOKEN_LBRACE) {
				break
			}
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, errors.Wrapf(err, "Attribute %q", a.Key)
		}
		a.Values = append(a.Values, v)
	}
	return a, nil
}

func (p *parser) parseKeyframe() (*Keyframe, error) {
	indexTok := p.tokens[p.pos]
	p.pos++

	index, err := strconv.Atoi(string(indexTok.Lexeme))
	if err != nil {
		return nil, errors.Errorf("Invalid keyframe index %q on line %d", indexTok.Lexeme, indexTok.StartLine)
	}
	if _, err := p.expect(TOKEN_LPAREN, "'(' after keyframe index"); err != nil {
		return nil, err
	}
	values, err := p.parseTupleTail()
	if err != nil {
		return nil, errors.Wrapf(err, "Keyframe %d", index)
	}
	return &Keyframe{Index: index, Values: values, Line: indexTok.StartLine}, nil
}

func (p *parser) parseTupleTail() ([]Value, error) {
	values := make([]Value, 0, 16)
	for {
		tok := p.peek(0)
		if tok == nil {
			return nil, errors.Errorf("Tuple is not closed")
		}
		if tok.Type == TOKEN_RPAREN {
			p.pos++
			return values, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
}

func (p *parser) parseValue() (Value, error) {
	tok := p.tokens[p.pos]
	p.pos++
	lexeme := string(tok.Lexeme)

	switch tok.Type {
	case TOKEN_STRING:
		s, err := strconv.Unquote(lexeme)
		if err != nil {
			return Value{}, errors.Errorf("Unknown string format on line %v (%q)", tok.StartLine, lexeme)
		}
		return Value{Kind: KIND_STRING, Text: s}, nil
	case TOKEN_NUMBER:
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Value{}, errors.Errorf("Unknown number format on line %v (%q)", tok.StartLine, lexeme)
		}
		return Value{Kind: KIND_NUMBER, Text: lexeme, Number: f}, nil
	case TOKEN_HEXFLOAT:
		f, err := utils.ParseFloatHex(lexeme)
		if err != nil {
			return Value{}, errors.Wrapf(err, "Line %v", tok.StartLine)
		}
		return Value{Kind: KIND_HEXFLOAT, Text: lexeme, Bits: math.Float32bits(f)}, nil
	case TOKEN_IDENT:
		return Value{Kind: KIND_IDENT, Text: lexeme}, nil
	case TOKEN_LPAREN:
		tuple, err := p.parseTupleTail()
		if err != nil {
			return Value{}, errors.Wrapf(err, "Tuple from line %v", tok.StartLine)
		}
		return Value{Kind: KIND_TUPLE, Text: "()", Tuple: tuple}, nil
	}
	return Value{}, errors.Errorf("Unexpected %q on line %v", lexeme, tok.StartLine)
}
