package movetree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const exportLineWidth = 79

// Write serializes games to PGN, separated by blank lines.
func Write(w io.Writer, games []*Game) error {
	for _, g := range games {
		if g == nil {
			continue
		}
		if _, err := io.WriteString(w, GameString(g)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile serializes games to a PGN file.
func WriteFile(path string, games []*Game) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, games); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GameString renders one game as PGN text: header section, blank line, then
// movetext with parenthesized variations, comments and NAGs.
func GameString(g *Game) string {
	var sb strings.Builder
	for _, t := range g.Tags {
		fmt.Fprintf(&sb, "[%s %q]\n", t.Name, t.Value)
	}
	sb.WriteString("\n")

	var toks []string
	if g.Root.Comment != "" {
		toks = append(toks, "{ "+sanitizeComment(g.Root.Comment)+" }")
	}
	toks = appendMovetext(toks, g.Root, 0, false)

	result := g.Tag("Result")
	if result == "" {
		result = "*"
	}
	toks = append(toks, result)

	sb.WriteString(wrapTokens(toks, exportLineWidth))
	return sb.String()
}

// appendMovetext emits the subtree below parent. The first child is the main
// continuation; the rest become recursive annotation variations right after
// it. force requests an explicit number on a black move (needed after an
// interruption by a comment or a variation).
func appendMovetext(toks []string, parent *Node, ply int, force bool) []string {
	if len(parent.Children) == 0 {
		return toks
	}

	main := parent.Children[0]
	toks = appendMoveTokens(toks, main, ply, force)

	for _, alt := range parent.Children[1:] {
		toks = append(toks, "(")
		toks = appendMoveTokens(toks, alt, ply, true)
		toks = appendMovetext(toks, alt, ply+1, alt.Comment != "")
		toks = append(toks, ")")
	}

	interrupted := len(parent.Children) > 1 || main.Comment != ""
	return appendMovetext(toks, main, ply+1, interrupted)
}

func appendMoveTokens(toks []string, n *Node, ply int, force bool) []string {
	num := ply/2 + 1
	switch {
	case ply%2 == 0:
		toks = append(toks, fmt.Sprintf("%d.%s", num, n.Move.SAN))
	case force:
		toks = append(toks, fmt.Sprintf("%d...%s", num, n.Move.SAN))
	default:
		toks = append(toks, n.Move.SAN)
	}
	for _, nag := range n.NAGs {
		toks = append(toks, fmt.Sprintf("$%d", nag))
	}
	if n.Comment != "" {
		toks = append(toks, "{ "+sanitizeComment(n.Comment)+" }")
	}
	return toks
}

// sanitizeComment keeps a comment from breaking out of its braces.
func sanitizeComment(c string) string {
	return strings.ReplaceAll(strings.ReplaceAll(c, "}", ""), "\n", " ")
}

func wrapTokens(toks []string, width int) string {
	var sb strings.Builder
	lineLen := 0
	for i, tok := range toks {
		if i > 0 {
			if lineLen+1+len(tok) > width {
				sb.WriteString("\n")
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(tok)
		lineLen += len(tok)
	}
	return sb.String()
}
