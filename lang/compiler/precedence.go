package compiler

import "loxvm/lang/token"

// Precedence orders binding strength from loosest to tightest, matching the
// language's expression grammar exactly (assignment binds loosest, a
// primary expression binds tightest).
type Precedence uint8

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix, infix parseFn
	prec          Precedence
}

var rules = [int(token.WHILE) + 1]parseRule{
	token.LPAREN: {prefix: (*Compiler).grouping, infix: (*Compiler).call, prec: PrecCall},
	token.DOT:    {infix: (*Compiler).dot, prec: PrecCall},
	token.MINUS:  {prefix: (*Compiler).unary, infix: (*Compiler).binary, prec: PrecTerm},
	token.PLUS:   {infix: (*Compiler).binary, prec: PrecTerm},
	token.SLASH:  {infix: (*Compiler).binary, prec: PrecFactor},
	token.STAR:   {infix: (*Compiler).binary, prec: PrecFactor},

	token.BANG:    {prefix: (*Compiler).unary},
	token.BANG_EQ: {infix: (*Compiler).binary, prec: PrecEquality},
	token.EQ_EQ:   {infix: (*Compiler).binary, prec: PrecEquality},
	token.GT:      {infix: (*Compiler).binary, prec: PrecComparison},
	token.GT_EQ:   {infix: (*Compiler).binary, prec: PrecComparison},
	token.LT:      {infix: (*Compiler).binary, prec: PrecComparison},
	token.LT_EQ:   {infix: (*Compiler).binary, prec: PrecComparison},

	token.IDENT:  {prefix: (*Compiler).variable},
	token.STRING: {prefix: (*Compiler).string},
	token.NUMBER: {prefix: (*Compiler).number},

	token.AND:   {infix: (*Compiler).and_, prec: PrecAnd},
	token.OR:    {infix: (*Compiler).or_, prec: PrecOr},
	token.FALSE: {prefix: (*Compiler).literal},
	token.NIL:   {prefix: (*Compiler).literal},
	token.TRUE:  {prefix: (*Compiler).literal},
	token.SUPER: {prefix: (*Compiler).super_},
	token.THIS:  {prefix: (*Compiler).this_},
}

func getRule(tok token.Token) parseRule { return rules[tok] }

// parsePrecedence parses and compiles the expression beginning at the
// current token, consuming operators whose precedence is at least prec (the
// standard Pratt/precedence-climbing loop).
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.p.advance()
	prefixRule := getRule(c.p.prev).prefix
	if prefixRule == nil {
		c.p.errorAtPrev("expect expression")
		return
	}

	canAssign := prec <= PrecAssignment
	prefixRule(c, canAssign)

	for prec <= getRule(c.p.cur).prec {
		c.p.advance()
		infixRule := getRule(c.p.prev).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.p.match(token.EQ) {
		c.p.errorAtPrev("invalid assignment target")
	}
}

func (c *Compiler) expression() { c.parsePrecedence(PrecAssignment) }
