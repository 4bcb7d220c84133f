// Package query compiles boolean text queries into evaluable expression trees.
//
// Grammar, case-insensitive operator keywords, highest precedence first:
// NOT, AND, OR. Terms are bare words or double-quoted phrases; a phrase
// matches as a contiguous substring. Adjacent terms with no explicit
// operator are joined with an implicit AND. An empty query compiles to a
// universal match.
//
// Malformed input never fails the parse. An unmatched parenthesis becomes a
// literal term, an unmatched opening quote turns the rest of the input into
// a single phrase term, and an operator with no operand is demoted to a
// literal term.
package query

import "strings"

// Expr is an immutable, reusable query expression. Matches evaluates the
// expression against a record's lowercase-normalized searchable text and is
// short-circuiting for AND and OR.
type Expr interface {
	Matches(text string) bool
}

// matchAll passes every record; it is what an empty query compiles to.
type matchAll struct{}

func (matchAll) Matches(string) bool { return true }

// term matches when the (lowercased) term occurs as a substring of the text.
// Quoted phrases are terms too: contiguity falls out of substring matching.
type term string

func (t term) Matches(text string) bool { return strings.Contains(text, string(t)) }

type andExpr []Expr

func (a andExpr) Matches(text string) bool {
	for _, e := range a {
		if !e.Matches(text) {
			return false
		}
	}
	return true
}

type orExpr []Expr

func (o orExpr) Matches(text string) bool {
	for _, e := range o {
		if e.Matches(text) {
			return true
		}
	}
	return false
}

type notExpr struct{ inner Expr }

func (n notExpr) Matches(text string) bool { return !n.inner.Matches(text) }

// Parse compiles a raw query string. It never returns an error: malformed
// tokens are recovered as literal terms so downstream filtering stays usable.
func Parse(raw string) Expr {
	toks := lex(raw)
	p := &parser{tokens: toks}
	expr := p.parseOr()
	if expr == nil {
		return matchAll{}
	}
	return expr
}

type tokenKind int

const (
	tokTerm tokenKind = iota
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func lex(raw string) []token {
	var toks []token
	runes := []rune(raw)
	i := 0
	flushWord := func(word string) {
		if word == "" {
			return
		}
		switch strings.ToUpper(word) {
		case "AND":
			toks = append(toks, token{kind: tokAnd, text: strings.ToLower(word)})
		case "OR":
			toks = append(toks, token{kind: tokOr, text: strings.ToLower(word)})
		case "NOT":
			toks = append(toks, token{kind: tokNot, text: strings.ToLower(word)})
		default:
			toks = append(toks, token{kind: tokTerm, text: strings.ToLower(word)})
		}
	}
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case r == '"':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '"' {
					end = j
					break
				}
			}
			if end < 0 {
				// Unmatched opening quote: the remainder is one phrase term.
				rest := strings.TrimSpace(string(runes[i+1:]))
				if rest != "" {
					toks = append(toks, token{kind: tokTerm, text: strings.ToLower(rest)})
				}
				i = len(runes)
				break
			}
			phrase := strings.TrimSpace(string(runes[i+1 : end]))
			if phrase != "" {
				toks = append(toks, token{kind: tokTerm, text: strings.ToLower(phrase)})
			}
			i = end + 1
		default:
			start := i
			for i < len(runes) {
				r = runes[i]
				if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ')' || r == '"' {
					break
				}
				i++
			}
			flushWord(string(runes[start:i]))
		}
	}
	return balanceParens(toks)
}

// balanceParens demotes unmatched parenthesis tokens to literal terms so the
// parser only ever sees balanced groups.
func balanceParens(toks []token) []token {
	var stack []int
	unmatched := make(map[int]bool)
	for i, t := range toks {
		switch t.kind {
		case tokLParen:
			stack = append(stack, i)
		case tokRParen:
			if len(stack) == 0 {
				unmatched[i] = true
			} else {
				stack = stack[:len(stack)-1]
			}
		}
	}
	for _, i := range stack {
		unmatched[i] = true
	}
	if len(unmatched) == 0 {
		return toks
	}
	out := make([]token, len(toks))
	for i, t := range toks {
		if unmatched[i] {
			out[i] = token{kind: tokTerm, text: t.text}
		} else {
			out[i] = t
		}
	}
	return out
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// operandAhead reports whether the next token can start an operand.
func (p *parser) operandAhead() bool {
	t, ok := p.peek()
	if !ok {
		return false
	}
	return t.kind == tokTerm || t.kind == tokNot || t.kind == tokLParen
}

// parseOr parses the lowest-precedence level. Returns nil when no operand
// is available (empty input or empty group).
func (p *parser) parseOr() Expr {
	left := p.parseAnd()
	if left == nil {
		return nil
	}
	exprs := orExpr{left}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOr {
			break
		}
		p.next()
		if !p.operandAhead() {
			// Dangling OR: demote the keyword to a literal term.
			exprs[len(exprs)-1] = andExpr{exprs[len(exprs)-1], term(t.text)}
			break
		}
		right := p.parseAnd()
		if right == nil {
			break
		}
		exprs = append(exprs, right)
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return exprs
}

func (p *parser) parseAnd() Expr {
	left := p.parseNot()
	if left == nil {
		return nil
	}
	exprs := andExpr{left}
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.kind == tokAnd {
			p.next()
			if !p.operandAhead() {
				exprs = append(exprs, term(t.text))
				break
			}
			exprs = append(exprs, p.parseNot())
			continue
		}
		// Implicit AND between adjacent operands.
		if t.kind == tokTerm || t.kind == tokNot || t.kind == tokLParen {
			e := p.parseNot()
			if e == nil {
				break
			}
			exprs = append(exprs, e)
			continue
		}
		break
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return exprs
}

func (p *parser) parseNot() Expr {
	t, ok := p.peek()
	if ok && t.kind == tokNot {
		p.next()
		if !p.operandAhead() {
			return term(t.text)
		}
		inner := p.parseNot()
		if inner == nil {
			return term(t.text)
		}
		return notExpr{inner: inner}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() Expr {
	t, ok := p.peek()
	if !ok {
		return nil
	}
	switch t.kind {
	case tokTerm:
		p.next()
		return term(t.text)
	case tokLParen:
		p.next()
		inner := p.parseOr()
		// balanceParens guarantees the matching close is present.
		if nxt, ok := p.peek(); ok && nxt.kind == tokRParen {
			p.next()
		}
		if inner == nil {
			return matchAll{}
		}
		return inner
	default:
		return nil
	}
}
