package formatter

import (
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/scenex/internal/rules"
)

// RulesMarkdown documents rules as a Markdown table in match order.
func RulesMarkdown(descs []rules.Descriptor) string {
	var sb strings.Builder
	sb.WriteString("# Widget rules\n\n")
	sb.WriteString("Rules are tried in order; the first match decides the widget.\n\n")
	sb.WriteString("| # | Name | Type | Matches | Pattern | Options | Source | When |\n")
	sb.WriteString("|---|------|------|---------|---------|---------|--------|------|\n")
	for i, d := range descs {
		field, pattern := d.Pattern()
		cells := []string{
			strconv.Itoa(i),
			d.Name,
			d.Type,
			field,
			code(pattern),
			strings.Join(d.Options, ", "),
			code(d.Source),
			code(d.When),
		}
		sb.WriteString("| " + strings.Join(escapeCells(cells), " | ") + " |\n")
	}
	return sb.String()
}

// RulesHTML renders RulesMarkdown as a standalone HTML fragment.
func RulesHTML(descs []rules.Descriptor) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(RulesMarkdown(descs)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}

// RulesTable lists rules for terminal output.
func RulesTable(descs []rules.Descriptor) Table {
	t := Table{Columns: []string{"#", "NAME", "TYPE", "MATCHES", "PATTERN", "OPTIONS", "SOURCE", "WHEN"}}
	for i, d := range descs {
		field, pattern := d.Pattern()
		t.Rows = append(t.Rows, []string{strconv.Itoa(i), d.Name, d.Type, field, pattern, strings.Join(d.Options, ","), d.Source, d.When})
	}
	return t
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
