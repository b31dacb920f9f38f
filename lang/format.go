package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the scope in canonical source syntax to the writer.
//
// With indent > 0, each expression is written on its own line and function
// bodies are indented by indent spaces per level. With indent == 0, the
// whole program is written on one line using ";" separators.
//
// Parsing the output yields a tree equal to s, apart from positions.
func (s Scope) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	formatScope(&sb, s, indent, 0)

	if len(s) > 0 {
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// String returns the scope in single-line canonical syntax.
func (s Scope) String() string {
	var sb strings.Builder

	formatScope(&sb, s, 0, 0)

	return sb.String()
}

// String returns the chain in canonical syntax.
func (c Chain) String() string {
	var sb strings.Builder

	formatChain(&sb, c)

	return sb.String()
}

// String returns the call with each word quoted as needed.
func (c Call) String() string {
	words := make([]string, len(c))
	for i, w := range c {
		words[i] = QuoteWord(w)
	}

	return strings.Join(words, " ")
}

// FormatJSON writes the scope as JSON to the writer.
// Operators are written verbatim rather than HTML-escaped.
func (s Scope) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(s.ToNative())
}

// FormatYAML writes the scope as YAML to the writer.
func (s Scope) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, s.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func formatScope(sb *strings.Builder, s Scope, indent, depth int) {
	pad := strings.Repeat(" ", indent*depth)
	count := 0

	for _, expr := range s {
		if expr == nil {
			continue
		}

		if count > 0 {
			if indent > 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteString("; ")
			}
		}

		sb.WriteString(pad)

		switch expr.Type {
		case ExprFunc:
			formatFunc(sb, expr.Func, indent, depth)
		default:
			formatChain(sb, expr.Chain)
		}

		count++
	}
}

func formatFunc(sb *strings.Builder, f *Func, indent, depth int) {
	if f == nil {
		return
	}

	sb.WriteString(f.Identifier)
	sb.WriteString("() {")

	if indent > 0 {
		if len(f.Body) > 0 {
			sb.WriteByte('\n')
			formatScope(sb, f.Body, indent, depth+1)
		}

		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", indent*depth))
		sb.WriteByte('}')

		return
	}

	if len(f.Body) > 0 {
		sb.WriteByte(' ')
		formatScope(sb, f.Body, indent, depth+1)
	}

	sb.WriteString(" }")
}

func formatChain(sb *strings.Builder, c Chain) {
	for i, elem := range c {
		if i > 0 {
			sb.WriteByte(' ')
		}

		switch elem.Type {
		case ElemCall:
			sb.WriteString(elem.Call.String())
		case ElemOp:
			sb.WriteString(elem.Op.String())
		}
	}
}

// QuoteWord returns w in a form that the parser reads back as exactly w.
// Words without special characters are returned unchanged; others are
// wrapped in single quotes.
func QuoteWord(w string) string {
	if w == "" {
		return "''"
	}

	if !strings.ContainsFunc(w, needsQuote) {
		return w
	}

	return "'" + strings.ReplaceAll(w, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	return isWordBreak(r) || strings.ContainsRune(`'"\#`, r)
}
