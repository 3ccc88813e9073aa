package lisptext

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/client9/acrewrite/expr"
)

// Parser is a recursive-descent parser over the Lisp-style grammar,
// grounded on the teacher's Parser{lexer, currentToken, peekToken, errors}
// shape and its addError/Errors() accumulation discipline.
type Parser struct {
	lexer        *Lexer
	currentToken Token
	peekToken    Token
	errors       []ParseError
}

func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) addError(kind ParseErrorKind, msg string) {
	p.errors = append(p.errors, ParseError{Kind: kind, Pos: p.currentToken.Position, Msg: msg})
}

func (p *Parser) Errors() []ParseError { return p.errors }

// ParseExpression parses the entire input as a single expr grammar
// production; trailing tokens after a complete expression are a bracket
// imbalance error.
func (p *Parser) ParseExpression() (expr.Expr, error) {
	if p.currentToken.Type == EOF {
		p.addError(ErrEmptyInput, "empty input")
		return nil, p.errors[0]
	}

	e := p.parseExpr()
	if p.currentToken.Type != EOF {
		p.addError(ErrBracketImbalance, "unexpected trailing input after expression")
	}
	if len(p.errors) > 0 {
		return nil, combinedError(p.errors)
	}
	return e, nil
}

// RuleForm is the result of parsing a top-level rule form
// "(" rule-op expr expr ")". Op is literally "=>" or "=="; the caller
// (package ruleset) maps it onto whichever RuleKind it needs.
type RuleForm struct {
	Op          string
	Pattern     expr.Expr
	Replacement expr.Expr
}

// ParseRule parses a single top-level rule form.
func (p *Parser) ParseRule() (RuleForm, error) {
	if p.currentToken.Type == EOF {
		p.addError(ErrEmptyInput, "empty input")
		return RuleForm{}, p.errors[0]
	}
	if p.currentToken.Type != LPAREN {
		p.addError(ErrBracketImbalance, "rule must start with '('")
		return RuleForm{}, combinedError(p.errors)
	}
	p.nextToken()

	var op string
	switch p.currentToken.Type {
	case RULEARROW:
		op = "=>"
	case RULEEQ:
		op = "=="
	default:
		p.addError(ErrMissingRuleOperator, "expected '=>' or '==' after '('")
		return RuleForm{}, combinedError(p.errors)
	}
	p.nextToken()

	pattern := p.parseExpr()
	replacement := p.parseExpr()

	if p.currentToken.Type == RPAREN {
		p.nextToken()
	} else if p.currentToken.Type == EOF {
		p.addError(ErrUnclosedBracket, "unclosed rule form")
	} else {
		p.addError(ErrMissingBracket, "expected ')' to close rule form")
	}

	if p.currentToken.Type != EOF {
		p.addError(ErrBracketImbalance, "unexpected trailing input after rule")
	}

	if len(p.errors) > 0 {
		return RuleForm{}, combinedError(p.errors)
	}
	return RuleForm{Op: op, Pattern: pattern, Replacement: replacement}, nil
}

// parseExpr parses one `expr` production, leaving currentToken on the
// first token past it. It returns nil on failure, having recorded at
// least one error, and always advances past the offending token so
// callers looping over argument lists terminate.
func (p *Parser) parseExpr() expr.Expr {
	switch p.currentToken.Type {
	case INTEGER:
		v := p.currentToken.Value
		n, err := strconv.ParseInt(v, 10, 32)
		p.nextToken()
		if err != nil {
			p.addError(ErrWrongArgCount, "integer literal out of 32-bit range: "+v)
			return nil
		}
		return expr.NewInteger(int32(n))

	case SYMBOL:
		name := p.currentToken.Value
		p.nextToken()
		if isAllUpper(name) {
			return expr.NewConstant(name)
		}
		return expr.NewVariable(name)

	case PLUS, MINUS, MULTIPLY, DIVIDE, RULEARROW, RULEEQ:
		p.addError(ErrReservedOperatorAsValue, "reserved operator '"+p.currentToken.Value+"' used as a value")
		p.nextToken()
		return nil

	case LPAREN:
		return p.parseList()

	case RPAREN:
		p.addError(ErrBracketImbalance, "unexpected ')'")
		p.nextToken()
		return nil

	case EOF:
		p.addError(ErrUnclosedBracket, "unexpected end of input")
		return nil

	default:
		p.addError(ErrBracketImbalance, "illegal token '"+p.currentToken.Value+"'")
		p.nextToken()
		return nil
	}
}

// parseList parses "(" head expr* ")".
func (p *Parser) parseList() expr.Expr {
	p.nextToken() // consume '('

	if p.currentToken.Type == RPAREN {
		p.addError(ErrEmptyFunctionBody, "empty function body '()'")
		p.nextToken()
		return nil
	}
	if p.currentToken.Type == EOF {
		p.addError(ErrUnclosedBracket, "unclosed '('")
		return nil
	}

	var result expr.Expr
	switch p.currentToken.Type {
	case PLUS:
		p.nextToken()
		result = expr.NewVariadic(expr.Addition, p.parseArgs()...)

	case MULTIPLY:
		p.nextToken()
		result = expr.NewVariadic(expr.Multiplication, p.parseArgs()...)

	case MINUS:
		p.nextToken()
		args := p.parseArgs()
		if len(args) != 1 {
			p.addError(ErrWrongArgCount, "'-' takes exactly one argument")
		} else {
			result = expr.NewUnary(expr.NegationKind(), args[0])
		}

	case DIVIDE:
		p.nextToken()
		args := p.parseArgs()
		if len(args) != 1 {
			p.addError(ErrWrongArgCount, "'/' takes exactly one argument")
		} else {
			result = expr.NewUnary(expr.ReciprocalKind(), args[0])
		}

	case SYMBOL:
		name := p.currentToken.Value
		p.nextToken()
		args := p.parseArgs()
		if len(args) != 1 {
			p.addError(ErrWrongArgCount, "named application '"+name+"' takes exactly one argument")
		} else {
			result = expr.NewUnary(expr.NamedKind(name), args[0])
		}

	default:
		p.addError(ErrNonCallableHead, "'"+p.currentToken.Value+"' cannot appear in head position")
		p.parseArgs() // consume the rest for recovery
	}

	switch p.currentToken.Type {
	case RPAREN:
		p.nextToken()
	case EOF:
		p.addError(ErrUnclosedBracket, "unclosed '('")
	default:
		p.addError(ErrMissingBracket, "expected ')'")
	}

	return result
}

// parseArgs parses zero or more expr productions up to (but not
// consuming) the closing ')'.
func (p *Parser) parseArgs() []expr.Expr {
	var args []expr.Expr
	for p.currentToken.Type != RPAREN && p.currentToken.Type != EOF {
		before := len(p.errors)
		a := p.parseExpr()
		if a != nil {
			args = append(args, a)
		} else if len(p.errors) == before {
			// Defensive: every parseExpr failure path records an error
			// and advances; this should be unreachable.
			break
		}
	}
	return args
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func combinedError(errs []ParseError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return ParseError{Kind: errs[0].Kind, Pos: errs[0].Pos, Msg: strings.Join(msgs, "; ")}
}
