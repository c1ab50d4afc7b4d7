// Package markdown renders the constrained markdown subset used by
// assistant replies (headings, emphasis, code, links, lists) into HTML
// fragments styled for the chat view. It is built on a real parser so that
// text content is always escaped, making the output safe to inject even
// when the source is untrusted.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		renderer.WithNodeRenderers(
			util.Prioritized(newChatRenderer(), 100),
		),
	),
)

// Render converts src into an HTML fragment.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var headingClasses = map[int]string{
	1: "text-2xl font-bold mt-6 mb-4 text-[#04093D]",
	2: "text-xl font-bold mt-5 mb-3 text-[#04093D]",
	3: "text-lg font-bold mt-4 mb-2 text-[#04093D]",
}

const (
	strongClass     = "font-black"
	emClass         = "italic"
	codeSpanClass   = "bg-slate-100 px-2 py-1 rounded text-sm font-mono text-slate-800"
	preClass        = "bg-slate-100 rounded-lg p-3 my-3 overflow-x-auto"
	codeBlockClass  = "text-sm font-mono text-slate-800"
	linkClass       = "text-[#002BFF] underline hover:text-[#04093D]"
	bulletListClass = "list-disc ml-6 my-2 space-y-1"
	orderedClass    = "list-decimal ml-6 my-2 space-y-1"
	listItemClass   = "ml-4 mb-1"
)

// chatRenderer overrides the default HTML renderer for the node kinds that
// carry chat styling classes. Everything else (paragraphs, text, line
// breaks) stays on the goldmark defaults.
type chatRenderer struct {
	html.Config
}

func newChatRenderer() renderer.NodeRenderer {
	return &chatRenderer{Config: html.NewConfig()}
}

func (r *chatRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
}

func (r *chatRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		if class, ok := headingClasses[n.Level]; ok {
			fmt.Fprintf(w, `<h%d class="%s">`, n.Level, class)
		} else {
			fmt.Fprintf(w, "<h%d>", n.Level)
		}
	} else {
		fmt.Fprintf(w, "</h%d>\n", n.Level)
	}
	return ast.WalkContinue, nil
}

func (r *chatRenderer) renderEmphasis(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Emphasis)
	tag, class := "em", emClass
	if n.Level == 2 {
		tag, class = "strong", strongClass
	}
	if entering {
		fmt.Fprintf(w, `<%s class="%s">`, tag, class)
	} else {
		fmt.Fprintf(w, "</%s>", tag)
	}
	return ast.WalkContinue, nil
}

func (r *chatRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<code class="` + codeSpanClass + `">`)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			segment := c.(*ast.Text).Segment
			value := segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				r.Writer.RawWrite(w, value[:len(value)-1])
				r.Writer.RawWrite(w, []byte(" "))
			} else {
				r.Writer.RawWrite(w, value)
			}
		}
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("</code>")
	return ast.WalkContinue, nil
}

func (r *chatRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		_, _ = w.WriteString(`<pre class="` + preClass + `"><code class="` + codeBlockClass + `">`)
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			r.Writer.RawWrite(w, line.Value(source))
		}
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkContinue, nil
}

func (r *chatRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if entering {
		_, _ = w.WriteString(`<a href="`)
		if r.Unsafe || !html.IsDangerousURL(n.Destination) {
			_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
		}
		_, _ = w.WriteString(`" class="` + linkClass + `" target="_blank" rel="noopener">`)
	} else {
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkContinue, nil
}

func (r *chatRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag, class := "ul", bulletListClass
	if n.IsOrdered() {
		tag, class = "ol", orderedClass
	}
	if entering {
		if n.IsOrdered() && n.Start != 1 {
			fmt.Fprintf(w, `<%s start="%d" class="%s">`+"\n", tag, n.Start, class)
		} else {
			fmt.Fprintf(w, `<%s class="%s">`+"\n", tag, class)
		}
	} else {
		fmt.Fprintf(w, "</%s>\n", tag)
	}
	return ast.WalkContinue, nil
}

func (r *chatRenderer) renderListItem(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<li class="` + listItemClass + `">`)
	} else {
		_, _ = w.WriteString("</li>\n")
	}
	return ast.WalkContinue, nil
}
