package js_parser

// A recursive-descent parser for the input language of this compiler: ES5
// plus "let" and "const". Passes that run before this compiler are expected
// to have already lowered classes, arrow functions, destructuring, and
// for-of loops, so those are syntax errors here (for-of gets a dedicated
// message since it's a known earlier stage).
//
// Unlike a single-pass compiler, the parser does not build scopes or bind
// symbols. The lowering pass rewrites the tree so heavily that scope
// information is recomputed per traversal instead (see js_scope).

import (
	"strings"

	"github.com/varify/varify/internal/js_ast"
	"github.com/varify/varify/internal/js_lexer"
	"github.com/varify/varify/internal/logger"
)

type parser struct {
	log    logger.Log
	source logger.Source
	lexer  js_lexer.Lexer

	// The "in" operator is forbidden while parsing the init clause of a
	// "for" statement so it doesn't swallow the "in" of a for-in loop
	allowIn bool
}

func Parse(log logger.Log, source logger.Source) (root *js_ast.Node, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:     log,
		source:  source,
		allowIn: true,
	}
	p.lexer = js_lexer.NewLexer(log, source)

	script := js_ast.Script()
	script.Loc = logger.Loc{Start: 0}
	for p.lexer.Token != js_lexer.TEndOfFile {
		script.AppendChild(p.parseStmt())
	}
	return script, ok
}

func (p *parser) parseStmt() *js_ast.Node {
	loc := p.lexer.Loc()
	jsdoc := p.takeJSDoc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return p.at(loc, js_ast.Empty())

	case js_lexer.TOpenBrace:
		return p.parseBlock()

	case js_lexer.TVar:
		p.lexer.Next()
		decl := p.parseDecls(js_ast.KindVar, loc, jsdoc)
		p.lexer.ExpectOrInsertSemicolon()
		return decl

	case js_lexer.TLet:
		p.lexer.Next()
		decl := p.parseDecls(js_ast.KindLet, loc, jsdoc)
		p.lexer.ExpectOrInsertSemicolon()
		return decl

	case js_lexer.TConst:
		p.lexer.Next()
		decl := p.parseDecls(js_ast.KindConst, loc, jsdoc)
		p.lexer.ExpectOrInsertSemicolon()
		return decl

	case js_lexer.TFunction:
		p.lexer.Next()
		fn := p.parseFn(true)
		fn.JSDoc = jsdoc
		return p.at(loc, fn)

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt()
		node := &js_ast.Node{Kind: js_ast.KindIf}
		node.AppendChild(test)
		node.AppendChild(yes)
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			node.AppendChild(p.parseStmt())
		}
		return p.at(loc, node)

	case js_lexer.TFor:
		return p.at(loc, p.parseFor())

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		node := &js_ast.Node{Kind: js_ast.KindWhile}
		node.AppendChild(test)
		node.AppendChild(body)
		return p.at(loc, node)

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt()
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		// A trailing semicolon after do-while is optional
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		node := &js_ast.Node{Kind: js_ast.KindDoWhile}
		node.AppendChild(body)
		node.AppendChild(test)
		return p.at(loc, node)

	case js_lexer.TContinue:
		p.lexer.Next()
		var label *js_ast.Node
		if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
			label = js_ast.LabelName(p.lexer.Identifier)
			p.lexer.Next()
		}
		p.lexer.ExpectOrInsertSemicolon()
		return p.at(loc, js_ast.Continue(label))

	case js_lexer.TBreak:
		p.lexer.Next()
		var label *js_ast.Node
		if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
			label = js_ast.LabelName(p.lexer.Identifier)
			p.lexer.Next()
		}
		p.lexer.ExpectOrInsertSemicolon()
		return p.at(loc, js_ast.Break(label))

	case js_lexer.TReturn:
		p.lexer.Next()
		var value *js_ast.Node
		if p.lexer.Token != js_lexer.TSemicolon && p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile && !p.lexer.HasNewlineBefore {
			value = p.parseExpr(js_ast.LLowest)
		}
		p.lexer.ExpectOrInsertSemicolon()
		if value == nil {
			return p.at(loc, js_ast.ReturnNothing())
		}
		return p.at(loc, js_ast.Return(value))

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.log.AddError(&p.source, loc, "Unexpected newline after \"throw\"")
			panic(js_lexer.LexerPanic{})
		}
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		node := &js_ast.Node{Kind: js_ast.KindThrow}
		node.AppendChild(value)
		return p.at(loc, node)

	case js_lexer.TTry:
		p.lexer.Next()
		node := &js_ast.Node{Kind: js_ast.KindTry}
		node.AppendChild(p.parseBlock())
		if p.lexer.Token == js_lexer.TCatch {
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TOpenParen)
			if p.lexer.Token != js_lexer.TIdentifier {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			param := js_ast.Name(p.lexer.Identifier)
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TCloseParen)
			catch := &js_ast.Node{Kind: js_ast.KindCatch}
			catch.AppendChild(param)
			catch.AppendChild(p.parseBlock())
			node.AppendChild(catch)
		}
		if p.lexer.Token == js_lexer.TFinally {
			p.lexer.Next()
			finally := &js_ast.Node{Kind: js_ast.KindFinally}
			finally.AppendChild(p.parseBlock())
			node.AppendChild(finally)
		}
		if !node.HasMoreThanOneChild() {
			p.lexer.ExpectedString("\"catch\" or \"finally\"")
		}
		return p.at(loc, node)

	default:
		expr := p.parseExpr(js_ast.LLowest)

		// A lone identifier followed by a colon is a label
		if p.lexer.Token == js_lexer.TColon && expr.Kind == js_ast.KindName {
			p.lexer.Next()
			stmt := p.parseStmt()
			return p.at(loc, js_ast.Label(js_ast.LabelName(expr.Value), stmt))
		}

		p.lexer.ExpectOrInsertSemicolon()
		stmt := js_ast.ExprResult(expr)
		stmt.JSDoc = jsdoc
		return p.at(loc, stmt)
	}
}

func (p *parser) at(loc logger.Loc, node *js_ast.Node) *js_ast.Node {
	node.Loc = loc
	return node
}

func (p *parser) takeJSDoc() *js_ast.JSDoc {
	text := p.lexer.JSDocComment
	if text == "" {
		return nil
	}
	return &js_ast.JSDoc{
		Raw:       text,
		Constancy: strings.Contains(text, "@const"),
	}
}

func (p *parser) parseBlock() *js_ast.Node {
	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	block := js_ast.Block()
	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TEndOfFile {
			p.lexer.Expected(js_lexer.TCloseBrace)
		}
		block.AppendChild(p.parseStmt())
	}
	p.lexer.Next()
	return p.at(loc, block)
}

// Parses the declarator list after a var/let/const keyword
func (p *parser) parseDecls(kind js_ast.Kind, loc logger.Loc, jsdoc *js_ast.JSDoc) *js_ast.Node {
	decl := &js_ast.Node{Kind: kind, JSDoc: jsdoc}

	for {
		switch p.lexer.Token {
		case js_lexer.TOpenBracket, js_lexer.TOpenBrace:
			p.log.AddRangeError(&p.source, p.lexer.Range(),
				"Destructuring declarations must be lowered before this compiler runs")
			panic(js_lexer.LexerPanic{})
		case js_lexer.TIdentifier:
		default:
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		name := js_ast.Name(p.lexer.Identifier)
		name.Loc = p.lexer.Loc()
		inlineJSDoc := p.takeJSDoc()
		if inlineJSDoc != nil && decl.JSDoc == nil {
			name.JSDoc = inlineJSDoc
		}
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			name.AppendChild(p.parseExpr(js_ast.LComma))
		}
		decl.AppendChild(name)

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return p.at(loc, decl)
}

func (p *parser) parseFor() *js_ast.Node {
	p.lexer.Expect(js_lexer.TFor)
	p.lexer.Expect(js_lexer.TOpenParen)

	var init *js_ast.Node
	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		init = js_ast.Empty()

	case js_lexer.TVar, js_lexer.TLet, js_lexer.TConst:
		kind := js_ast.KindVar
		switch p.lexer.Token {
		case js_lexer.TLet:
			kind = js_ast.KindLet
		case js_lexer.TConst:
			kind = js_ast.KindConst
		}
		loc := p.lexer.Loc()
		jsdoc := p.takeJSDoc()
		p.lexer.Next()
		p.allowIn = false
		init = p.parseDecls(kind, loc, jsdoc)
		p.allowIn = true

	default:
		p.allowIn = false
		init = p.parseExpr(js_ast.LLowest)
		p.allowIn = true
	}

	// for-in
	if p.lexer.Token == js_lexer.TIn {
		p.lexer.Next()
		object := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		node := &js_ast.Node{Kind: js_ast.KindForIn}
		node.AppendChild(init)
		node.AppendChild(object)
		node.AppendChild(body)
		return node
	}

	// for-of must have been lowered by an earlier stage
	if p.lexer.IsContextualKeyword("of") {
		p.log.AddRangeError(&p.source, p.lexer.Range(),
			"for-of loops must be lowered before this compiler runs")
		panic(js_lexer.LexerPanic{})
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	test := js_ast.Empty()
	if p.lexer.Token != js_lexer.TSemicolon {
		test = p.parseExpr(js_ast.LLowest)
	}
	p.lexer.Expect(js_lexer.TSemicolon)

	update := js_ast.Empty()
	if p.lexer.Token != js_lexer.TCloseParen {
		update = p.parseExpr(js_ast.LLowest)
	}
	p.lexer.Expect(js_lexer.TCloseParen)

	body := p.parseStmt()
	node := &js_ast.Node{Kind: js_ast.KindFor}
	node.AppendChild(init)
	node.AppendChild(test)
	node.AppendChild(update)
	node.AppendChild(body)
	return node
}

// Parses a function after the "function" keyword. Declarations must be named.
func (p *parser) parseFn(isDeclaration bool) *js_ast.Node {
	name := js_ast.Name("")
	if p.lexer.Token == js_lexer.TIdentifier {
		name.Value = p.lexer.Identifier
		p.lexer.Next()
	} else if isDeclaration {
		p.lexer.Expected(js_lexer.TIdentifier)
	}

	params := js_ast.ParamList()
	p.lexer.Expect(js_lexer.TOpenParen)
	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token != js_lexer.TIdentifier {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		params.AppendChild(js_ast.Name(p.lexer.Identifier))
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TCloseParen)

	body := p.parseBlock()
	return js_ast.Function(name, params, body)
}

func (p *parser) parseExpr(level js_ast.L) *js_ast.Node {
	return p.parseSuffix(p.parsePrefix(), level)
}

func (p *parser) parsePrefix() *js_ast.Node {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		value := js_ast.Num(p.lexer.Number)
		p.lexer.Next()
		return p.at(loc, value)

	case js_lexer.TStringLiteral:
		value := js_ast.Str(p.lexer.StringLiteral)
		p.lexer.Next()
		return p.at(loc, value)

	case js_lexer.TIdentifier:
		value := js_ast.Name(p.lexer.Identifier)
		p.lexer.Next()
		return p.at(loc, value)

	case js_lexer.TTrue:
		p.lexer.Next()
		return p.at(loc, js_ast.Bool(true))

	case js_lexer.TFalse:
		p.lexer.Next()
		return p.at(loc, js_ast.Bool(false))

	case js_lexer.TNull:
		p.lexer.Next()
		return p.at(loc, js_ast.Null())

	case js_lexer.TThis:
		p.lexer.Next()
		return p.at(loc, js_ast.This())

	case js_lexer.TOpenParen:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		return value

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.at(loc, p.parseFn(false))

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		array := &js_ast.Node{Kind: js_ast.KindArrayLit}
		for p.lexer.Token != js_lexer.TCloseBracket {
			array.AppendChild(p.parseExpr(js_ast.LComma))
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return p.at(loc, array)

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		object := js_ast.ObjectLit()
		for p.lexer.Token != js_lexer.TCloseBrace {
			object.AppendChild(p.parseProperty())
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		return p.at(loc, object)

	case js_lexer.TNew:
		p.lexer.Next()
		target := p.parsePrefix()

		// Member expressions bind tighter than "new"
		for {
			switch p.lexer.Token {
			case js_lexer.TDot:
				p.lexer.Next()
				if p.lexer.Token != js_lexer.TIdentifier {
					p.lexer.Expected(js_lexer.TIdentifier)
				}
				target = js_ast.GetProp(target, p.lexer.Identifier)
				p.lexer.Next()
				continue

			case js_lexer.TOpenBracket:
				p.lexer.Next()
				index := p.parseExpr(js_ast.LLowest)
				p.lexer.Expect(js_lexer.TCloseBracket)
				target = js_ast.GetElem(target, index)
				continue
			}
			break
		}

		node := js_ast.New(target)
		if p.lexer.Token == js_lexer.TOpenParen {
			p.lexer.Next()
			for p.lexer.Token != js_lexer.TCloseParen {
				node.AppendChild(p.parseExpr(js_ast.LComma))
				if p.lexer.Token != js_lexer.TComma {
					break
				}
				p.lexer.Next()
			}
			p.lexer.Expect(js_lexer.TCloseParen)
		}
		return p.at(loc, node)

	case js_lexer.TPlus:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpPos, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TMinus:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpNeg, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TExclamation:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpNot, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TVoid:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpVoid, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TTypeof:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpTypeof, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TDelete:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpDelete, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpPreDec, p.parseExpr(js_ast.LPrefix)))

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		return p.at(loc, js_ast.Unary(js_ast.UnOpPreInc, p.parseExpr(js_ast.LPrefix)))

	default:
		p.lexer.Unexpected()
		return nil
	}
}

// Parses one member of an object literal
func (p *parser) parseProperty() *js_ast.Node {
	loc := p.lexer.Loc()

	// Getter or setter
	if p.lexer.Token == js_lexer.TIdentifier &&
		(p.lexer.Identifier == "get" || p.lexer.Identifier == "set") {
		accessor := p.lexer.Identifier
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TStringLiteral {
			kind := js_ast.KindGetterDef
			if accessor == "set" {
				kind = js_ast.KindSetterDef
			}
			node := &js_ast.Node{Kind: kind}
			if p.lexer.Token == js_lexer.TStringLiteral {
				node.Value = p.lexer.StringLiteral
			} else {
				node.Value = p.lexer.Identifier
			}
			p.lexer.Next()
			node.AppendChild(p.parseFn(false))
			return p.at(loc, node)
		}
		// Plain property named "get" or "set"
		p.lexer.Expect(js_lexer.TColon)
		return p.at(loc, js_ast.StringKey(accessor, p.parseExpr(js_ast.LComma)))
	}

	var key string
	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		key = p.lexer.Identifier
	case js_lexer.TStringLiteral:
		key = p.lexer.StringLiteral
	case js_lexer.TNumericLiteral:
		key = p.lexer.Raw()
	default:
		p.lexer.Expected(js_lexer.TIdentifier)
	}
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TColon)
	return p.at(loc, js_ast.StringKey(key, p.parseExpr(js_ast.LComma)))
}

func (p *parser) parseSuffix(left *js_ast.Node, level js_ast.L) *js_ast.Node {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier {
				p.lexer.Expected(js_lexer.TIdentifier)
			}
			left = js_ast.GetProp(left, p.lexer.Identifier)
			p.lexer.Next()

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			index := p.parseExpr(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.GetElem(left, index)

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			p.lexer.Next()
			call := js_ast.Call(left)
			// Calling a plain name evaluates the callee without a receiver
			call.FreeCall = left.Kind == js_ast.KindName
			for p.lexer.Token != js_lexer.TCloseParen {
				call.AppendChild(p.parseExpr(js_ast.LComma))
				if p.lexer.Token != js_lexer.TComma {
					break
				}
				p.lexer.Next()
			}
			p.lexer.Expect(js_lexer.TCloseParen)
			left = call

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Unary(js_ast.UnOpPostInc, left)

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.lexer.Next()
			left = js_ast.Unary(js_ast.UnOpPostDec, left)

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()
			yes := p.parseExpr(js_ast.LComma)
			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Hook(left, yes, no)

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return left
			}
			p.lexer.Next()
			left = js_ast.Comma(left, p.parseExpr(js_ast.LComma))

		case js_lexer.TEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.lexer.Next()
			left = js_ast.Assign(left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TPlusEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpAddAssign, left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TMinusEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpSubAssign, left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TAsteriskEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpMulAssign, left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TSlashEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpDivAssign, left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TPercentEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpRemAssign, left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TBarBar:
			if level >= js_ast.LLogicalOr {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpLogicalOr, left, p.parseExpr(js_ast.LLogicalOr))

		case js_lexer.TAmpersandAmpersand:
			if level >= js_ast.LLogicalAnd {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpLogicalAnd, left, p.parseExpr(js_ast.LLogicalAnd))

		case js_lexer.TEqualsEquals:
			if level >= js_ast.LEquals {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpLooseEq, left, p.parseExpr(js_ast.LEquals))

		case js_lexer.TExclamationEquals:
			if level >= js_ast.LEquals {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpLooseNe, left, p.parseExpr(js_ast.LEquals))

		case js_lexer.TEqualsEqualsEquals:
			if level >= js_ast.LEquals {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpStrictEq, left, p.parseExpr(js_ast.LEquals))

		case js_lexer.TExclamationEqualsEquals:
			if level >= js_ast.LEquals {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpStrictNe, left, p.parseExpr(js_ast.LEquals))

		case js_lexer.TLessThan:
			if level >= js_ast.LCompare {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpLt, left, p.parseExpr(js_ast.LCompare))

		case js_lexer.TLessThanEquals:
			if level >= js_ast.LCompare {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpLe, left, p.parseExpr(js_ast.LCompare))

		case js_lexer.TGreaterThan:
			if level >= js_ast.LCompare {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpGt, left, p.parseExpr(js_ast.LCompare))

		case js_lexer.TGreaterThanEquals:
			if level >= js_ast.LCompare {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpGe, left, p.parseExpr(js_ast.LCompare))

		case js_lexer.TIn:
			if level >= js_ast.LCompare || !p.allowIn {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpIn, left, p.parseExpr(js_ast.LCompare))

		case js_lexer.TInstanceof:
			if level >= js_ast.LCompare {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpInstanceof, left, p.parseExpr(js_ast.LCompare))

		case js_lexer.TPlus:
			if level >= js_ast.LAdd {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpAdd, left, p.parseExpr(js_ast.LAdd))

		case js_lexer.TMinus:
			if level >= js_ast.LAdd {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpSub, left, p.parseExpr(js_ast.LAdd))

		case js_lexer.TAsterisk:
			if level >= js_ast.LMultiply {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpMul, left, p.parseExpr(js_ast.LMultiply))

		case js_lexer.TSlash:
			if level >= js_ast.LMultiply {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpDiv, left, p.parseExpr(js_ast.LMultiply))

		case js_lexer.TPercent:
			if level >= js_ast.LMultiply {
				return left
			}
			p.lexer.Next()
			left = js_ast.Binary(js_ast.BinOpRem, left, p.parseExpr(js_ast.LMultiply))

		default:
			return left
		}
	}
}
