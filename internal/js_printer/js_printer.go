package js_printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/varify/varify/internal/js_ast"
)

type Options struct {
	// Defaults to two spaces
	Indent string
}

type PrintResult struct {
	JS []byte
}

func Print(tree *js_ast.Node, options Options) PrintResult {
	p := &printer{
		indent: options.Indent,
	}
	if p.indent == "" {
		p.indent = "  "
	}
	for stmt := tree.FirstChild(); stmt != nil; stmt = stmt.Next() {
		p.printStmt(stmt)
	}
	return PrintResult{JS: p.js}
}

type printer struct {
	js     []byte
	indent string
	depth  int

	// Set when a statement shares a line with a label, so its own leading
	// indent must be suppressed
	skipIndentOnce bool
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printIndent() {
	for i := 0; i < p.depth; i++ {
		p.print(p.indent)
	}
}

func (p *printer) printNewline() {
	p.print("\n")
}

func (p *printer) printStmt(stmt *js_ast.Node) {
	if p.skipIndentOnce {
		p.skipIndentOnce = false
	} else {
		p.printIndent()
	}

	switch stmt.Kind {
	case js_ast.KindEmpty:
		p.print(";")
		p.printNewline()

	case js_ast.KindBlock:
		p.printBlock(stmt)
		p.printNewline()

	case js_ast.KindVar, js_ast.KindLet, js_ast.KindConst:
		p.printDecl(stmt)
		p.print(";")
		p.printNewline()

	case js_ast.KindExprResult:
		p.printExprStart(stmt.FirstChild())
		p.print(";")
		p.printNewline()

	case js_ast.KindFunction:
		p.printFn(stmt)
		p.printNewline()

	case js_ast.KindIf:
		p.printIf(stmt)

	case js_ast.KindFor:
		init := stmt.FirstChild()
		test := init.Next()
		update := test.Next()
		body := update.Next()
		p.print("for (")
		if init.Kind != js_ast.KindEmpty {
			if init.IsNameDeclaration() {
				p.printDecl(init)
			} else {
				p.printExpr(init, js_ast.LLowest)
			}
		}
		p.print("; ")
		if test.Kind != js_ast.KindEmpty {
			p.printExpr(test, js_ast.LLowest)
		}
		p.print("; ")
		if update.Kind != js_ast.KindEmpty {
			p.printExpr(update, js_ast.LLowest)
		}
		p.print(")")
		p.printBody(body)

	case js_ast.KindForIn, js_ast.KindForOf:
		target := stmt.FirstChild()
		object := target.Next()
		body := object.Next()
		p.print("for (")
		if target.IsNameDeclaration() {
			p.printDecl(target)
		} else {
			p.printExpr(target, js_ast.LLowest)
		}
		if stmt.Kind == js_ast.KindForIn {
			p.print(" in ")
		} else {
			p.print(" of ")
		}
		p.printExpr(object, js_ast.LLowest)
		p.print(")")
		p.printBody(body)

	case js_ast.KindWhile:
		p.print("while (")
		p.printExpr(stmt.FirstChild(), js_ast.LLowest)
		p.print(")")
		p.printBody(stmt.LastChild())

	case js_ast.KindDoWhile:
		body := stmt.FirstChild()
		p.print("do")
		if body.Kind == js_ast.KindBlock {
			p.print(" ")
			p.printBlock(body)
			p.print(" ")
		} else {
			p.printNewline()
			p.depth++
			p.printStmt(body)
			p.depth--
			p.printIndent()
		}
		p.print("while (")
		p.printExpr(stmt.LastChild(), js_ast.LLowest)
		p.print(");")
		p.printNewline()

	case js_ast.KindLabel:
		p.print(stmt.FirstChild().Value)
		p.print(": ")
		body := stmt.LastChild()
		if body.Kind == js_ast.KindBlock {
			p.printBlock(body)
			p.printNewline()
		} else {
			p.skipIndentOnce = true
			p.printStmt(body)
		}

	case js_ast.KindBreak:
		p.print("break")
		if label := stmt.FirstChild(); label != nil {
			p.print(" ")
			p.print(label.Value)
		}
		p.print(";")
		p.printNewline()

	case js_ast.KindContinue:
		p.print("continue")
		if label := stmt.FirstChild(); label != nil {
			p.print(" ")
			p.print(label.Value)
		}
		p.print(";")
		p.printNewline()

	case js_ast.KindReturn:
		p.print("return")
		if value := stmt.FirstChild(); value != nil {
			p.print(" ")
			p.printExpr(value, js_ast.LLowest)
		}
		p.print(";")
		p.printNewline()

	case js_ast.KindThrow:
		p.print("throw ")
		p.printExpr(stmt.FirstChild(), js_ast.LLowest)
		p.print(";")
		p.printNewline()

	case js_ast.KindTry:
		p.print("try ")
		p.printBlock(stmt.FirstChild())
		for clause := stmt.FirstChild().Next(); clause != nil; clause = clause.Next() {
			if clause.Kind == js_ast.KindCatch {
				p.print(" catch (")
				p.print(clause.FirstChild().Value)
				p.print(") ")
				p.printBlock(clause.LastChild())
			} else {
				p.print(" finally ")
				p.printBlock(clause.FirstChild())
			}
		}
		p.printNewline()

	default:
		panic("Internal error: unexpected statement: " + stmt.Kind.String())
	}
}

func (p *printer) printIf(stmt *js_ast.Node) {
	test := stmt.FirstChild()
	yes := test.Next()
	no := yes.Next()

	p.print("if (")
	p.printExpr(test, js_ast.LLowest)
	p.print(")")

	if yes.Kind == js_ast.KindBlock {
		p.print(" ")
		p.printBlock(yes)
	} else {
		p.printNewline()
		p.depth++
		p.printStmt(yes)
		p.depth--
		if no != nil {
			p.printIndent()
		}
	}

	if no != nil {
		if yes.Kind == js_ast.KindBlock {
			p.print(" ")
		}
		p.print("else")
		switch no.Kind {
		case js_ast.KindBlock:
			p.print(" ")
			p.printBlock(no)
			p.printNewline()
		case js_ast.KindIf:
			p.print(" ")
			p.printIf(no)
		default:
			p.printNewline()
			p.depth++
			p.printStmt(no)
			p.depth--
		}
	} else if yes.Kind == js_ast.KindBlock {
		p.printNewline()
	}
}

// printBody prints a loop or if body: blocks open on the same line, single
// statements go on the next line indented
func (p *printer) printBody(body *js_ast.Node) {
	if body.Kind == js_ast.KindBlock {
		p.print(" ")
		p.printBlock(body)
		p.printNewline()
	} else {
		p.printNewline()
		p.depth++
		p.printStmt(body)
		p.depth--
	}
}

func (p *printer) printBlock(block *js_ast.Node) {
	p.print("{")
	p.printNewline()
	p.depth++
	for stmt := block.FirstChild(); stmt != nil; stmt = stmt.Next() {
		p.printStmt(stmt)
	}
	p.depth--
	p.printIndent()
	p.print("}")
}

// printDecl prints a declaration list without the trailing semicolon so it
// can appear in for-loop heads too
func (p *printer) printDecl(decl *js_ast.Node) {
	p.printJSDoc(decl.JSDoc)
	switch decl.Kind {
	case js_ast.KindVar:
		p.print("var ")
	case js_ast.KindLet:
		p.print("let ")
	case js_ast.KindConst:
		p.print("const ")
	}
	for name := decl.FirstChild(); name != nil; name = name.Next() {
		if name.Prev() != nil {
			p.print(", ")
		}
		p.printJSDoc(name.JSDoc)
		p.print(name.Value)
		if init := name.FirstChild(); init != nil {
			p.print(" = ")
			p.printExpr(init, js_ast.LComma)
		}
	}
}

func (p *printer) printJSDoc(doc *js_ast.JSDoc) {
	if doc == nil {
		return
	}
	if doc.Raw != "" {
		p.print("/** ")
		p.print(doc.Raw)
		p.print(" */ ")
	} else if doc.Constancy {
		p.print("/** @const */ ")
	}
}

func (p *printer) printFn(fn *js_ast.Node) {
	name := fn.FirstChild()
	params := name.Next()
	body := params.Next()

	p.print("function")
	if name.Value != "" {
		p.print(" ")
		p.print(name.Value)
	}
	p.print("(")
	for param := params.FirstChild(); param != nil; param = param.Next() {
		if param.Prev() != nil {
			p.print(", ")
		}
		p.print(param.Value)
	}
	p.print(") ")
	p.printBlock(body)
}

// Whether printing this expression would start with "function" or "{", which
// must be parenthesized in statement position
func startsWithFnOrObject(n *js_ast.Node) bool {
	for {
		switch n.Kind {
		case js_ast.KindFunction, js_ast.KindObjectLit:
			return true
		case js_ast.KindCall, js_ast.KindNew, js_ast.KindGetProp, js_ast.KindGetElem,
			js_ast.KindHook:
			n = n.FirstChild()
		case js_ast.KindBinary:
			n = n.FirstChild()
		case js_ast.KindUnary:
			if n.Op.IsPrefix() {
				return false
			}
			n = n.FirstChild()
		default:
			return false
		}
	}
}

// printExprStart prints an expression in statement position, wrapping it in
// parentheses if it would otherwise parse as a declaration or block
func (p *printer) printExprStart(n *js_ast.Node) {
	if startsWithFnOrObject(n) {
		p.print("(")
		p.printExpr(n, js_ast.LLowest)
		p.print(")")
		return
	}
	p.printExpr(n, js_ast.LLowest)
}

func (p *printer) printExpr(n *js_ast.Node, level js_ast.L) {
	switch n.Kind {
	case js_ast.KindName:
		p.print(n.Value)

	case js_ast.KindNumber:
		p.printNumber(n.Number)

	case js_ast.KindString:
		p.printQuoted(n.Value)

	case js_ast.KindTrue:
		p.print("true")

	case js_ast.KindFalse:
		p.print("false")

	case js_ast.KindNull:
		p.print("null")

	case js_ast.KindThis:
		p.print("this")

	case js_ast.KindCast:
		p.printExpr(n.FirstChild(), level)

	case js_ast.KindArrayLit:
		p.print("[")
		for item := n.FirstChild(); item != nil; item = item.Next() {
			if item.Prev() != nil {
				p.print(", ")
			}
			p.printExpr(item, js_ast.LComma)
		}
		p.print("]")

	case js_ast.KindObjectLit:
		if !n.HasChildren() {
			p.print("{}")
			return
		}
		p.print("{ ")
		for prop := n.FirstChild(); prop != nil; prop = prop.Next() {
			if prop.Prev() != nil {
				p.print(", ")
			}
			p.printProperty(prop)
		}
		p.print(" }")

	case js_ast.KindFunction:
		p.printFn(n)

	case js_ast.KindCall:
		callee := n.FirstChild()
		if n.FreeCall && (callee.Kind == js_ast.KindGetProp || callee.Kind == js_ast.KindGetElem) {
			// The callee is a property access but the call must still
			// happen without a receiver
			p.print("(0, ")
			p.printExpr(callee, js_ast.LLowest)
			p.print(")")
		} else {
			p.printExpr(callee, js_ast.LPostfix)
		}
		p.print("(")
		for arg := callee.Next(); arg != nil; arg = arg.Next() {
			if arg.Prev() != callee {
				p.print(", ")
			}
			p.printExpr(arg, js_ast.LComma)
		}
		p.print(")")

	case js_ast.KindNew:
		callee := n.FirstChild()
		p.print("new ")
		p.printExpr(callee, js_ast.LCall)
		p.print("(")
		for arg := callee.Next(); arg != nil; arg = arg.Next() {
			if arg.Prev() != callee {
				p.print(", ")
			}
			p.printExpr(arg, js_ast.LComma)
		}
		p.print(")")

	case js_ast.KindGetProp:
		p.printExpr(n.FirstChild(), js_ast.LPostfix)
		p.print(".")
		p.print(n.Value)

	case js_ast.KindGetElem:
		p.printExpr(n.FirstChild(), js_ast.LPostfix)
		p.print("[")
		p.printExpr(n.LastChild(), js_ast.LLowest)
		p.print("]")

	case js_ast.KindHook:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
		}
		test := n.FirstChild()
		yes := test.Next()
		no := yes.Next()
		p.printExpr(test, js_ast.LConditional)
		p.print(" ? ")
		p.printExpr(yes, js_ast.LComma)
		p.print(" : ")
		p.printExpr(no, js_ast.LComma)
		if wrap {
			p.print(")")
		}

	case js_ast.KindUnary:
		entry := js_ast.OpTable[n.Op]
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		if n.Op.IsPrefix() {
			p.print(entry.Text)
			if entry.IsKeyword || glues(entry.Text, n.FirstChild()) {
				p.print(" ")
			}
			p.printExpr(n.FirstChild(), js_ast.LPrefix-1)
		} else {
			p.printExpr(n.FirstChild(), js_ast.LPostfix-1)
			p.print(entry.Text)
		}
		if wrap {
			p.print(")")
		}

	case js_ast.KindBinary:
		entry := js_ast.OpTable[n.Op]
		wrap := level >= entry.Level
		leftLevel := entry.Level - 1
		rightLevel := entry.Level - 1
		if n.Op.IsRightAssociative() {
			leftLevel = entry.Level
		}
		if n.Op.IsLeftAssociative() {
			rightLevel = entry.Level
		}
		if wrap {
			p.print("(")
		}
		p.printExpr(n.FirstChild(), leftLevel)
		if n.Op == js_ast.BinOpComma {
			p.print(", ")
		} else {
			p.print(" ")
			p.print(entry.Text)
			p.print(" ")
		}
		p.printExpr(n.LastChild(), rightLevel)
		if wrap {
			p.print(")")
		}

	default:
		panic("Internal error: unexpected expression: " + n.Kind.String())
	}
}

// Avoids gluing "-" onto a leading "-" of the operand, which would change
// "-(-x)" into "--x"
func glues(opText string, operand *js_ast.Node) bool {
	if opText != "-" && opText != "+" {
		return false
	}
	if operand.Kind != js_ast.KindUnary || !operand.Op.IsPrefix() {
		return false
	}
	next := js_ast.OpTable[operand.Op].Text
	return next != "" && next[0] == opText[0]
}

func (p *printer) printProperty(prop *js_ast.Node) {
	switch prop.Kind {
	case js_ast.KindStringKey:
		p.printKey(prop.Value)
		p.print(": ")
		p.printExpr(prop.FirstChild(), js_ast.LComma)

	case js_ast.KindGetterDef, js_ast.KindSetterDef:
		if prop.Kind == js_ast.KindGetterDef {
			p.print("get ")
		} else {
			p.print("set ")
		}
		p.printKey(prop.Value)
		fn := prop.FirstChild()
		params := fn.FirstChild().Next()
		body := params.Next()
		p.print("(")
		for param := params.FirstChild(); param != nil; param = param.Next() {
			if param.Prev() != nil {
				p.print(", ")
			}
			p.print(param.Value)
		}
		p.print(") ")
		p.printBlock(body)

	default:
		panic("Internal error: unexpected object member: " + prop.Kind.String())
	}
}

func (p *printer) printKey(key string) {
	if isIdentifierText(key) {
		p.print(key)
	} else {
		p.printQuoted(key)
	}
}

func isIdentifierText(text string) bool {
	if text == "" {
		return false
	}
	for i, c := range text {
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

func (p *printer) printNumber(value float64) {
	if value == math.Trunc(value) && math.Abs(value) < 1e21 {
		p.print(strconv.FormatFloat(value, 'f', -1, 64))
	} else {
		p.print(strconv.FormatFloat(value, 'g', -1, 64))
	}
}

func (p *printer) printQuoted(text string) {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range text {
		switch c {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\u2028':
			sb.WriteString("\\u2028")
		case '\u2029':
			sb.WriteString("\\u2029")
		default:
			if c < 0x20 {
				sb.WriteString("\\x")
				if c < 0x10 {
					sb.WriteString("0")
				}
				sb.WriteString(strconv.FormatInt(int64(c), 16))
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	p.print(sb.String())
}
