package websearch

import "testing"

func TestStripTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"the <b>quick</b> fox", "the quick fox"},
		{"a <span class=\"hl\">marked</span> word", "a marked word"},
		{"", ""},
		{"<b></b>", ""},
	}
	for _, c := range cases {
		if got := StripTags(c.in); got != c.want {
			t.Errorf("StripTags(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanTextSkipsScriptAndStyle(t *testing.T) {
	page := []byte(`<html>
<head><title>T</title><style>body { color: red }</style></head>
<body>
<script>var x = 1;</script>
<h1>Heading</h1>
<p>First   paragraph.</p>
<noscript>enable js</noscript>
<p>Second.</p>
</body></html>`)

	got := CleanText(page)
	want := "T Heading First paragraph. Second."
	if got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

func TestCleanTextEmptyPage(t *testing.T) {
	if got := CleanText(nil); got != "" {
		t.Errorf("CleanText(nil) = %q, want empty", got)
	}
}
