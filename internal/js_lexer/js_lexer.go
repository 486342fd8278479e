package js_lexer

// The lexer covers the language this compiler accepts as input: ES5 plus
// "let" and "const". Syntax that must already be lowered away before this
// compiler runs (classes, arrows, destructuring, template literals) has no
// tokens here, which keeps the scanner small. Identifiers are ASCII; the
// input is expected to be the output of an earlier compile stage.
//
// The lexer reports an error and panics with LexerPanic on invalid input.
// The parser's top-level entry point recovers from this, so the error is
// surfaced through the log rather than a crash.

import (
	"strconv"
	"strings"

	"github.com/varify/varify/internal/logger"
)

type T uint8

const (
	TEndOfFile T = iota
	TSyntaxError

	// Literals
	TNumericLiteral
	TStringLiteral

	// Punctuation
	TAmpersandAmpersand
	TAsterisk
	TAsteriskEquals
	TBarBar
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TComma
	TDot
	TEquals
	TEqualsEquals
	TEqualsEqualsEquals
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TLessThan
	TLessThanEquals
	TMinus
	TMinusEquals
	TMinusMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPercentEquals
	TPlus
	TPlusEquals
	TPlusPlus
	TQuestion
	TSemicolon
	TSlash
	TSlashEquals

	// Identifiers
	TIdentifier

	// Reserved words
	TBreak
	TCase
	TCatch
	TConst
	TContinue
	TDefault
	TDelete
	TDo
	TElse
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TIn
	TInstanceof
	TLet
	TNew
	TNull
	TReturn
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
)

var Keywords = map[string]T{
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"const":      TConst,
	"continue":   TContinue,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"in":         TIn,
	"instanceof": TInstanceof,
	"let":        TLet,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
}

var tokenToString = map[T]string{
	TEndOfFile:   "end of file",
	TSyntaxError: "syntax error",

	TNumericLiteral: "number",
	TStringLiteral:  "string",

	TAmpersandAmpersand:      "\"&&\"",
	TAsterisk:                "\"*\"",
	TAsteriskEquals:          "\"*=\"",
	TBarBar:                  "\"||\"",
	TCloseBrace:              "\"}\"",
	TCloseBracket:            "\"]\"",
	TCloseParen:              "\")\"",
	TColon:                   "\":\"",
	TComma:                   "\",\"",
	TDot:                     "\".\"",
	TEquals:                  "\"=\"",
	TEqualsEquals:            "\"==\"",
	TEqualsEqualsEquals:      "\"===\"",
	TExclamation:             "\"!\"",
	TExclamationEquals:       "\"!=\"",
	TExclamationEqualsEquals: "\"!==\"",
	TGreaterThan:             "\">\"",
	TGreaterThanEquals:       "\">=\"",
	TLessThan:                "\"<\"",
	TLessThanEquals:          "\"<=\"",
	TMinus:                   "\"-\"",
	TMinusEquals:             "\"-=\"",
	TMinusMinus:              "\"--\"",
	TOpenBrace:               "\"{\"",
	TOpenBracket:             "\"[\"",
	TOpenParen:               "\"(\"",
	TPercent:                 "\"%\"",
	TPercentEquals:           "\"%=\"",
	TPlus:                    "\"+\"",
	TPlusEquals:              "\"+=\"",
	TPlusPlus:                "\"++\"",
	TQuestion:                "\"?\"",
	TSemicolon:               "\";\"",
	TSlash:                   "\"/\"",
	TSlashEquals:             "\"/=\"",

	TIdentifier: "identifier",

	TBreak:      "\"break\"",
	TCase:       "\"case\"",
	TCatch:      "\"catch\"",
	TConst:      "\"const\"",
	TContinue:   "\"continue\"",
	TDefault:    "\"default\"",
	TDelete:     "\"delete\"",
	TDo:         "\"do\"",
	TElse:       "\"else\"",
	TFalse:      "\"false\"",
	TFinally:    "\"finally\"",
	TFor:        "\"for\"",
	TFunction:   "\"function\"",
	TIf:         "\"if\"",
	TIn:         "\"in\"",
	TInstanceof: "\"instanceof\"",
	TLet:        "\"let\"",
	TNew:        "\"new\"",
	TNull:       "\"null\"",
	TReturn:     "\"return\"",
	TSwitch:     "\"switch\"",
	TThis:       "\"this\"",
	TThrow:      "\"throw\"",
	TTrue:       "\"true\"",
	TTry:        "\"try\"",
	TTypeof:     "\"typeof\"",
	TVar:        "\"var\"",
	TVoid:       "\"void\"",
	TWhile:      "\"while\"",
}

// This is the error to throw to recover from a syntax error
type LexerPanic struct{}

type Lexer struct {
	log    logger.Log
	source logger.Source

	current int
	start   int
	end     int

	Token            T
	Identifier       string
	Number           float64
	StringLiteral    string
	HasNewlineBefore bool

	// The text of a "/** ... */" comment immediately before the current
	// token, without the delimiters, or "" if there wasn't one
	JSDocComment string

	codePoint rune
}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.step()
	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Raw() == text
}

func (lexer *Lexer) ExpectContextualKeyword(text string) {
	if !lexer.IsContextualKeyword(text) {
		lexer.ExpectedString("\"" + text + "\"")
	}
	lexer.Next()
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := lexer.decodeRuneAt(lexer.end)
		if c < 0x20 {
			message = "Syntax error \"\\x" + strconv.FormatInt(int64(c), 16) + "\""
		} else {
			message = "Syntax error \"" + string(c) + "\""
		}
	}
	lexer.log.AddError(&lexer.source, loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) ExpectedString(text string) {
	found := "end of file"
	if lexer.start < len(lexer.source.Contents) {
		found = "\"" + lexer.Raw() + "\""
	}
	lexer.log.AddRangeError(&lexer.source, lexer.Range(), "Expected "+text+" but found "+found)
	panic(LexerPanic{})
}

func (lexer *Lexer) Expected(token T) {
	if text, ok := tokenToString[token]; ok {
		lexer.ExpectedString(text)
	} else {
		lexer.Unexpected()
	}
}

func (lexer *Lexer) Unexpected() {
	found := "end of file"
	if lexer.start < len(lexer.source.Contents) {
		found = "\"" + lexer.Raw() + "\""
	}
	lexer.log.AddRangeError(&lexer.source, lexer.Range(), "Unexpected "+found)
	panic(LexerPanic{})
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

// Like Next() but for the parser to call after a statement so the "was there
// a newline" flag survives the token boundary checks it needs for ASI
func (lexer *Lexer) ExpectOrInsertSemicolon() {
	if lexer.Token == TSemicolon || (!lexer.HasNewlineBefore &&
		lexer.Token != TCloseBrace && lexer.Token != TEndOfFile) {
		lexer.Expect(TSemicolon)
	}
}

func (lexer *Lexer) decodeRuneAt(i int) (rune, int) {
	if i >= len(lexer.source.Contents) {
		return -1, 0
	}
	// ASCII input is the expected case
	c := lexer.source.Contents[i]
	if c < 0x80 {
		return rune(c), 1
	}
	for _, r := range lexer.source.Contents[i:] {
		return r, len(string(r))
	}
	return -1, 0
}

func (lexer *Lexer) step() {
	codePoint, width := lexer.decodeRuneAt(lexer.current)
	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func isIdentifierStart(codePoint rune) bool {
	return codePoint == '_' || codePoint == '$' ||
		(codePoint >= 'a' && codePoint <= 'z') ||
		(codePoint >= 'A' && codePoint <= 'Z')
}

func isIdentifierContinue(codePoint rune) bool {
	return isIdentifierStart(codePoint) || (codePoint >= '0' && codePoint <= '9')
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !isIdentifierStart(codePoint) {
				return false
			}
		} else {
			if !isIdentifierContinue(codePoint) {
				return false
			}
		}
	}
	return true
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = false
	lexer.JSDocComment = ""

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case '\r', '\n', '\u2028', '\u2029':
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case '\t', ' ':
			lexer.step()
			continue

		case '(':
			lexer.step()
			lexer.Token = TOpenParen

		case ')':
			lexer.step()
			lexer.Token = TCloseParen

		case '[':
			lexer.step()
			lexer.Token = TOpenBracket

		case ']':
			lexer.step()
			lexer.Token = TCloseBracket

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token = TCloseBrace

		case ',':
			lexer.step()
			lexer.Token = TComma

		case ':':
			lexer.step()
			lexer.Token = TColon

		case ';':
			lexer.step()
			lexer.Token = TSemicolon

		case '?':
			lexer.step()
			lexer.Token = TQuestion

		case '.':
			lexer.step()
			lexer.Token = TDot

		case '%':
			// '%' or '%='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TPercentEquals
			} else {
				lexer.Token = TPercent
			}

		case '&':
			// '&&' ('&' alone is not in the input language)
			lexer.step()
			if lexer.codePoint != '&' {
				lexer.SyntaxError()
			}
			lexer.step()
			lexer.Token = TAmpersandAmpersand

		case '|':
			// '||'
			lexer.step()
			if lexer.codePoint != '|' {
				lexer.SyntaxError()
			}
			lexer.step()
			lexer.Token = TBarBar

		case '+':
			// '+' or '+=' or '++'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TPlusEquals

			case '+':
				lexer.step()
				lexer.Token = TPlusPlus

			default:
				lexer.Token = TPlus
			}

		case '-':
			// '-' or '-=' or '--'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TMinusEquals

			case '-':
				lexer.step()
				lexer.Token = TMinusMinus

			default:
				lexer.Token = TMinus
			}

		case '*':
			// '*' or '*='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TAsteriskEquals
			} else {
				lexer.Token = TAsterisk
			}

		case '/':
			// '/' or '/=' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TSlashEquals

			case '/':
			singleLineComment:
				for {
					lexer.step()
					switch lexer.codePoint {
					case '\r', '\n', '\u2028', '\u2029', -1:
						break singleLineComment
					}
				}
				continue

			case '*':
				commentStart := lexer.start
				lexer.step()
			multiLineComment:
				for {
					switch lexer.codePoint {
					case '*':
						lexer.step()
						if lexer.codePoint == '/' {
							lexer.step()
							break multiLineComment
						}

					case '\r', '\n', '\u2028', '\u2029':
						lexer.step()
						lexer.HasNewlineBefore = true

					case -1: // This indicates the end of the file
						lexer.start = lexer.end
						lexer.log.AddError(&lexer.source, lexer.Loc(), "Expected \"*/\" to terminate multi-line comment")
						panic(LexerPanic{})

					default:
						lexer.step()
					}
				}
				// Remember JSDoc comments so the parser can attach them to
				// the next declaration
				text := lexer.source.Contents[commentStart:lexer.end]
				if strings.HasPrefix(text, "/**") && len(text) > len("/***/")-1 {
					lexer.JSDocComment = strings.TrimSpace(text[len("/**") : len(text)-len("*/")])
				}
				continue

			default:
				lexer.Token = TSlash
			}

		case '=':
			// '=' or '==' or '==='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TEqualsEqualsEquals
				} else {
					lexer.Token = TEqualsEquals
				}
			} else {
				lexer.Token = TEquals
			}

		case '<':
			// '<' or '<='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TLessThanEquals
			} else {
				lexer.Token = TLessThan
			}

		case '>':
			// '>' or '>='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TGreaterThanEquals
			} else {
				lexer.Token = TGreaterThan
			}

		case '!':
			// '!' or '!=' or '!=='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TExclamationEqualsEquals
				} else {
					lexer.Token = TExclamationEquals
				}
			} else {
				lexer.Token = TExclamation
			}

		case '\'', '"':
			quote := lexer.codePoint
			sb := strings.Builder{}
			lexer.step()

		stringLiteral:
			for {
				switch lexer.codePoint {
				case '\\':
					lexer.step()
					sb.WriteRune(lexer.decodeEscape())

				case '\r', '\n':
					lexer.log.AddError(&lexer.source, logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
					panic(LexerPanic{})

				case -1: // This indicates the end of the file
					lexer.log.AddError(&lexer.source, logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
					panic(LexerPanic{})

				case quote:
					lexer.step()
					break stringLiteral

				default:
					sb.WriteRune(lexer.codePoint)
					lexer.step()
				}
			}

			lexer.StringLiteral = sb.String()
			lexer.Token = TStringLiteral

		default:
			switch {
			case isIdentifierStart(lexer.codePoint):
				lexer.step()
				for isIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				lexer.Identifier = lexer.Raw()
				if keyword, ok := Keywords[lexer.Identifier]; ok {
					lexer.Token = keyword
				} else {
					lexer.Token = TIdentifier
				}

			case lexer.codePoint >= '0' && lexer.codePoint <= '9':
				lexer.parseNumericLiteral()

			default:
				lexer.SyntaxError()
			}
		}

		return
	}
}

func (lexer *Lexer) decodeEscape() rune {
	c := lexer.codePoint
	switch c {
	case 'b':
		lexer.step()
		return '\b'
	case 'f':
		lexer.step()
		return '\f'
	case 'n':
		lexer.step()
		return '\n'
	case 'r':
		lexer.step()
		return '\r'
	case 't':
		lexer.step()
		return '\t'
	case 'v':
		lexer.step()
		return '\v'
	case '0':
		lexer.step()
		return 0
	case 'x':
		lexer.step()
		return rune(lexer.decodeHexDigits(2))
	case 'u':
		lexer.step()
		return rune(lexer.decodeHexDigits(4))
	case '\r', '\n', -1:
		lexer.log.AddError(&lexer.source, logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
		panic(LexerPanic{})
	default:
		lexer.step()
		return c
	}
}

func (lexer *Lexer) decodeHexDigits(count int) int32 {
	value := int32(0)
	for i := 0; i < count; i++ {
		c := lexer.codePoint
		switch {
		case c >= '0' && c <= '9':
			value = value*16 + (c - '0')
		case c >= 'a' && c <= 'f':
			value = value*16 + (c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			value = value*16 + (c - 'A' + 10)
		default:
			lexer.SyntaxError()
		}
		lexer.step()
	}
	return value
}

func (lexer *Lexer) parseNumericLiteral() {
	// Hexadecimal
	if lexer.codePoint == '0' {
		lexer.step()
		if lexer.codePoint == 'x' || lexer.codePoint == 'X' {
			lexer.step()
			value := float64(0)
			hasDigit := false
			for {
				c := lexer.codePoint
				switch {
				case c >= '0' && c <= '9':
					value = value*16 + float64(c-'0')
				case c >= 'a' && c <= 'f':
					value = value*16 + float64(c-'a'+10)
				case c >= 'A' && c <= 'F':
					value = value*16 + float64(c-'A'+10)
				default:
					if !hasDigit {
						lexer.SyntaxError()
					}
					lexer.Number = value
					lexer.Token = TNumericLiteral
					return
				}
				hasDigit = true
				lexer.step()
			}
		}
	}

	// Decimal digits, fraction, exponent
	for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
		lexer.step()
	}
	if lexer.codePoint == '.' {
		lexer.step()
		for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
			lexer.step()
		}
	}
	if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
		lexer.step()
		if lexer.codePoint == '+' || lexer.codePoint == '-' {
			lexer.step()
		}
		if lexer.codePoint < '0' || lexer.codePoint > '9' {
			lexer.SyntaxError()
		}
		for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
			lexer.step()
		}
	}

	// An identifier right after a number is never valid
	if isIdentifierStart(lexer.codePoint) {
		lexer.SyntaxError()
	}

	value, err := strconv.ParseFloat(lexer.Raw(), 64)
	if err != nil {
		lexer.SyntaxError()
	}
	lexer.Number = value
	lexer.Token = TNumericLiteral
}
