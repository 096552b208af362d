package classify

import "testing"

func TestAttr(t *testing.T) {
	fn := Attr("language")
	if got := fn(map[string]string{"language": "R"}, ""); got != "r" {
		t.Errorf("Attr = %q, want r", got)
	}
	if got := fn(map[string]string{}, "anything"); got != "" {
		t.Errorf("Attr on missing attribute = %q, want empty", got)
	}
	if got := fn(nil, ""); got != "" {
		t.Errorf("Attr on nil attrs = %q, want empty", got)
	}
}

func TestFence(t *testing.T) {
	fn := Fence()
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain header", "{r}\nx <- 1", "r"},
		{"header with label", "{r setup, echo=FALSE}\nlibrary(ggplot2)", "r"},
		{"upper case", "{R}\n", "r"},
		{"python", "{python}\nimport sys", "python"},
		{"fenced", "```{python}\nimport sys", "python"},
		{"dotted class", "{.yaml}\nkey: value", "yaml"},
		{"single line", "{bash ls}", "bash"},
		{"no header", "x <- 1\ny <- 2", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fn(nil, tt.text); got != tt.want {
				t.Errorf("Fence(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseFenceHeader(t *testing.T) {
	lang, label, opts, ok := ParseFenceHeader("{r setup, echo=FALSE, fig.width=7}")
	if !ok {
		t.Fatal("header not recognized")
	}
	if lang != "r" || label != "setup" {
		t.Errorf("lang=%q label=%q, want r/setup", lang, label)
	}
	if opts["echo"] != "FALSE" || opts["fig.width"] != "7" {
		t.Errorf("opts = %v", opts)
	}

	lang, label, opts, ok = ParseFenceHeader("{python}")
	if !ok || lang != "python" || label != "" || opts != nil {
		t.Errorf("bare header parsed as (%q, %q, %v, %v)", lang, label, opts, ok)
	}

	if _, _, _, ok := ParseFenceHeader("plain text"); ok {
		t.Error("plain text recognized as a header")
	}
}

func TestFirstOf(t *testing.T) {
	fn := FirstOf(Attr("language"), Fence(), Fixed("text"))

	if got := fn(map[string]string{"language": "R"}, "{python}\n"); got != "r" {
		t.Errorf("attribute should win: got %q", got)
	}
	if got := fn(nil, "{python}\n"); got != "python" {
		t.Errorf("fence fallback: got %q", got)
	}
	if got := fn(nil, "plain"); got != "text" {
		t.Errorf("fixed fallback: got %q", got)
	}
}

func TestFixed(t *testing.T) {
	if got := Fixed("YAML")(nil, ""); got != "yaml" {
		t.Errorf("Fixed = %q, want yaml", got)
	}
}
