package movetree

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// ReadAll parses every game in a PGN stream into variation trees. SAN tokens
// are resolved against the running board state, so the stored moves carry
// canonical SAN and a stable identity key. Recursive annotation variations,
// comments and NAGs are preserved.
func ReadAll(r io.Reader) ([]*Game, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{lex: &lexer{src: string(data)}}
	if err := p.run(); err != nil {
		return nil, fmt.Errorf("pgn game %d: %w", len(p.games)+1, err)
	}
	return p.games, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokTag
	tokSymbol
	tokComment
	tokNAG
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string // symbol text, comment body, NAG digits or tag name
	val  string // tag value
}

type lexer struct {
	src string
	pos int
	bol bool // at beginning of line
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}

	switch c := l.src[l.pos]; {
	case c == '[':
		return l.tagPair()
	case c == '{':
		return l.braceComment()
	case c == '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case c == '$':
		l.pos++
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
		if l.pos == start {
			return token{}, fmt.Errorf("bare '$' in movetext")
		}
		return token{kind: tokNAG, text: l.src[start:l.pos]}, nil
	default:
		start := l.pos
		for l.pos < len(l.src) && !strings.ContainsRune(" \t\r\n(){}[];", rune(l.src[l.pos])) {
			l.pos++
		}
		if l.pos == start {
			return token{}, fmt.Errorf("unexpected character %q", l.src[l.pos])
		}
		return token{kind: tokSymbol, text: l.src[start:l.pos]}, nil
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.bol = true
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '%' && l.bol:
			// escape line, discard to end of line
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == ';':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			l.bol = false
			return
		}
	}
}

func (l *lexer) tagPair() (token, error) {
	l.pos++ // '['
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.src) && !strings.ContainsRune(" \t\"", rune(l.src[l.pos])) {
		l.pos++
	}
	name := l.src[start:l.pos]
	l.skipSpace()
	if l.pos >= len(l.src) || l.src[l.pos] != '"' {
		return token{}, fmt.Errorf("malformed tag pair near %q", name)
	}
	l.pos++
	var val strings.Builder
	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos++
		}
		val.WriteByte(l.src[l.pos])
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, fmt.Errorf("unterminated tag value for %q", name)
	}
	l.pos++ // closing quote
	for l.pos < len(l.src) && l.src[l.pos] != ']' {
		l.pos++
	}
	if l.pos < len(l.src) {
		l.pos++ // ']'
	}
	return token{kind: tokTag, text: name, val: val.String()}, nil
}

func (l *lexer) braceComment() (token, error) {
	l.pos++ // '{'
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '}' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, fmt.Errorf("unterminated comment")
	}
	body := l.src[start:l.pos]
	l.pos++ // '}'
	return token{kind: tokComment, text: strings.TrimSpace(body)}, nil
}

// savedState is the (node, position) pair needed to resume after a
// parenthesized variation.
type savedState struct {
	node *Node
	pos  *chess.Position
}

type ravFrame struct {
	resume savedState
	pre    savedState
}

type parser struct {
	lex   *lexer
	games []*Game

	game     *Game
	cur      *Node
	pos      *chess.Position
	pre      savedState // state before the most recent move at this level
	stack    []ravFrame
	inMoves  bool
	finished bool

	notation chess.AlgebraicNotation
}

func (p *parser) run() error {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}

		switch tok.kind {
		case tokEOF:
			return p.finishGame()

		case tokTag:
			if p.game == nil || p.inMoves || p.finished {
				if err := p.finishGame(); err != nil {
					return err
				}
				p.startGame()
			}
			p.game.SetTag(tok.text, tok.val)

		case tokSymbol:
			if err := p.ensureMovetext(); err != nil {
				return err
			}
			if err := p.symbol(tok.text); err != nil {
				return err
			}

		case tokComment:
			if err := p.ensureMovetext(); err != nil {
				return err
			}
			p.attachComment(tok.text)

		case tokNAG:
			if err := p.ensureMovetext(); err != nil {
				return err
			}
			if p.cur != p.game.Root {
				n, _ := strconv.Atoi(tok.text)
				p.cur.NAGs = append(p.cur.NAGs, n)
			}

		case tokLParen:
			if err := p.ensureMovetext(); err != nil {
				return err
			}
			if p.pre.node == nil {
				return fmt.Errorf("variation before any move")
			}
			p.stack = append(p.stack, ravFrame{
				resume: savedState{node: p.cur, pos: p.pos},
				pre:    p.pre,
			})
			p.cur, p.pos = p.pre.node, p.pre.pos

		case tokRParen:
			if len(p.stack) == 0 {
				return fmt.Errorf("unbalanced ')' in movetext")
			}
			f := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.cur, p.pos = f.resume.node, f.resume.pos
			p.pre = f.pre
		}
	}
}

func (p *parser) startGame() {
	p.game = NewGame()
	p.cur = p.game.Root
	p.pos = chess.StartingPosition()
	p.pre = savedState{}
	p.stack = nil
	p.inMoves = false
	p.finished = false
}

func (p *parser) ensureMovetext() error {
	if p.game == nil || p.finished {
		if err := p.finishGame(); err != nil {
			return err
		}
		p.startGame()
	}
	p.inMoves = true
	return nil
}

func (p *parser) finishGame() error {
	if p.game == nil {
		return nil
	}
	if len(p.stack) != 0 {
		return fmt.Errorf("unbalanced '(' in movetext")
	}
	p.games = append(p.games, p.game)
	p.game = nil
	return nil
}

var resultTokens = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "*": true}

func (p *parser) symbol(text string) error {
	if resultTokens[text] {
		p.finished = true
		return nil
	}
	// "2.", "2..." and glued forms like "2...Nc6" all appear in the wild
	text = stripMoveNumber(text)
	if text == "" {
		return nil
	}

	san, suffixNAG := splitSuffixAnnotation(text)
	if san == "" {
		return fmt.Errorf("empty move token %q", text)
	}

	m, err := p.notation.Decode(p.pos, san)
	if err != nil {
		return fmt.Errorf("cannot resolve move %q: %v", san, err)
	}

	p.pre = savedState{node: p.cur, pos: p.pos}
	p.cur = p.cur.AddChild(Move{SAN: p.notation.Encode(p.pos, m), UCI: m.String()})
	if suffixNAG != 0 {
		p.cur.NAGs = append(p.cur.NAGs, suffixNAG)
	}
	p.pos = p.pos.Update(m)
	return nil
}

func (p *parser) attachComment(body string) {
	if body == "" {
		return
	}
	if p.cur.Comment == "" {
		p.cur.Comment = body
	} else {
		p.cur.Comment += " " + body
	}
}

// stripMoveNumber drops a leading move-number indicator ("12", "12.",
// "12...") from a movetext token, keeping whatever SAN follows it.
func stripMoveNumber(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return s
	}
	j := i
	for j < len(s) && s[j] == '.' {
		j++
	}
	if j == i {
		// digits with no dots: a bare move number, or something else
		// entirely (e.g. "0-0") which the decoder gets to reject
		if i == len(s) {
			return ""
		}
		return s
	}
	return s[j:]
}

var suffixNAGs = map[string]int{"!": 1, "?": 2, "!!": 3, "??": 4, "!?": 5, "?!": 6}

// splitSuffixAnnotation strips a trailing !/? annotation from a SAN token and
// maps it to its numeric annotation glyph.
func splitSuffixAnnotation(tok string) (string, int) {
	cut := len(tok)
	for cut > 0 && (tok[cut-1] == '!' || tok[cut-1] == '?') {
		cut--
	}
	if cut == len(tok) {
		return tok, 0
	}
	return tok[:cut], suffixNAGs[tok[cut:]]
}

// ReadFile parses every game in a PGN file.
func ReadFile(path string) ([]*Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}
