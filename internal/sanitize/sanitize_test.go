package sanitize

import (
	"strings"
	"testing"
)

func TestSanitizeStripsScriptingVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"script tag", `<p>hi</p><script>alert(1)</script>`},
		{"inline handler", `<p onclick="alert(1)">hi</p>`},
		{"javascript url", `<a href="javascript:alert(1)">click</a>`},
		{"event on image", `<img src="https://x/a.png" onerror="alert(1)">`},
		{"style attribute", `<p style="background:url(javascript:alert(1))">hi</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(tt.input)
			for _, bad := range []string{"<script", "onclick", "onerror", "javascript:", "style="} {
				if strings.Contains(out, bad) {
					t.Errorf("output %q contains %q", out, bad)
				}
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`<h1>Title</h1><p>Body with <em>emphasis</em> and <strong>strength</strong>.</p>`,
		`<div><span>nested <b>junk</b></span></div>`,
		`<a href="https://example.com">link</a>`,
		`<a href="javascript:x">bad link</a>`,
		`<img src="https://example.com/a.png" alt="pic">`,
		`<table><thead><tr><th>h</th></tr></thead><tbody><tr><td>d</td></tr></tbody></table>`,
		`plain text & entities <pre><code>x := 1</code></pre>`,
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestSanitizeDisallowedTagKeepsText(t *testing.T) {
	out := Sanitize(`<div>outer <span>inner</span></div>`)
	if strings.Contains(out, "<div") || strings.Contains(out, "<span") {
		t.Errorf("disallowed tags survived: %q", out)
	}
	if !strings.Contains(out, "outer inner") {
		t.Errorf("text content lost: %q", out)
	}
}

func TestSanitizeAnchors(t *testing.T) {
	out := Sanitize(`<a href="https://example.com/x">safe</a>`)
	for _, want := range []string{`href="https://example.com/x"`, `rel="noopener noreferrer"`, `target="_blank"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	out = Sanitize(`<a href="ftp://example.com/x">unsafe</a>`)
	if strings.Contains(out, "href") {
		t.Errorf("unsafe href kept: %q", out)
	}
	if !strings.Contains(out, "unsafe") {
		t.Errorf("link text lost: %q", out)
	}

	for _, scheme := range []string{"mailto:a@b.c", "tel:+15551234567"} {
		out = Sanitize(`<a href="` + scheme + `">c</a>`)
		if !strings.Contains(out, `href="`+scheme+`"`) {
			t.Errorf("safe scheme %q dropped: %q", scheme, out)
		}
	}
}

func TestSanitizeImages(t *testing.T) {
	out := Sanitize(`<img src="https://example.com/a.png" alt="desc" width="10" class="x">`)
	if !strings.Contains(out, `src="https://example.com/a.png"`) || !strings.Contains(out, `alt="desc"`) {
		t.Errorf("safe image mangled: %q", out)
	}
	if strings.Contains(out, "width") || strings.Contains(out, "class") {
		t.Errorf("extra attributes kept: %q", out)
	}

	// Unsafe src removes the element outright, not just the attribute.
	out = Sanitize(`<p>before</p><img src="javascript:x" alt="gone"><p>after</p>`)
	if strings.Contains(out, "<img") || strings.Contains(out, "gone") {
		t.Errorf("unsafe image survived: %q", out)
	}
}

func TestSanitizeStripsAttributesOnAllowedTags(t *testing.T) {
	out := Sanitize(`<p id="a" class="b" data-x="c">text</p>`)
	if out != "<p>text</p>" {
		t.Errorf("Sanitize = %q, want %q", out, "<p>text</p>")
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := Render("# Heading\n\nSome *emphasis* and a [link](https://example.com).\n")
	for _, want := range []string{"<h1", "<em>emphasis</em>", `href="https://example.com"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	// Raw HTML in markdown still goes through the allowlist.
	out = Render("hello <script>alert(1)</script> world")
	if strings.Contains(out, "<script") {
		t.Errorf("script survived markdown render: %q", out)
	}
}
