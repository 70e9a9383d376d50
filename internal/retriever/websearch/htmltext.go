package websearch

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes markup from an HTML fragment, keeping only the text.
func StripTags(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
		}
	}
	return collapseSpace(b.String())
}

// CleanText extracts the visible text of a full HTML page, skipping script
// and style content.
func CleanText(page []byte) string {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		// The parser recovers from almost anything; treat a hard
		// failure as an empty page.
		return ""
	}
	var b strings.Builder
	collectText(doc, &b)
	return collapseSpace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
