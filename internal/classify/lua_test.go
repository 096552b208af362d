package classify

import (
	"errors"
	"testing"
)

const testScript = `
function classify(attrs, text)
	if attrs.language ~= nil and attrs.language ~= "" then
		return attrs.language
	end
	if string.sub(text, 1, 2) == "#!" then
		return "bash"
	end
	return nil
end
`

func TestLuaClassifier(t *testing.T) {
	c, err := NewLuaClassifier(testScript)
	if err != nil {
		t.Fatalf("NewLuaClassifier error = %v", err)
	}
	defer c.Close()

	got, err := c.Classify(map[string]string{"language": "R"}, "")
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}
	if got != "r" {
		t.Errorf("Classify = %q, want r (normalized)", got)
	}

	got, err = c.Classify(nil, "#!/bin/sh\nls")
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}
	if got != "bash" {
		t.Errorf("Classify = %q, want bash", got)
	}

	got, err = c.Classify(nil, "plain")
	if err != nil {
		t.Fatalf("Classify error = %v", err)
	}
	if got != "" {
		t.Errorf("Classify = %q, want empty for nil return", got)
	}
}

func TestLuaClassifier_Func(t *testing.T) {
	c, err := NewLuaClassifier(testScript)
	if err != nil {
		t.Fatalf("NewLuaClassifier error = %v", err)
	}
	defer c.Close()

	fn := c.Func()
	if got := fn(map[string]string{"language": "Python"}, ""); got != "python" {
		t.Errorf("Func = %q, want python", got)
	}
}

func TestLuaClassifier_MissingFunction(t *testing.T) {
	_, err := NewLuaClassifier(`x = 1`)
	if !errors.Is(err, ErrNoClassifyFunc) {
		t.Errorf("error = %v, want ErrNoClassifyFunc", err)
	}
}

func TestLuaClassifier_BadScript(t *testing.T) {
	if _, err := NewLuaClassifier(`function classify(`); err == nil {
		t.Error("syntax error not reported")
	}
}

func TestLuaClassifier_RuntimeError(t *testing.T) {
	c, err := NewLuaClassifier(`function classify(attrs, text) error("boom") end`)
	if err != nil {
		t.Fatalf("NewLuaClassifier error = %v", err)
	}
	defer c.Close()

	if _, err := c.Classify(nil, ""); err == nil {
		t.Error("runtime error not reported")
	}
	// The Func adapter degrades errors to the unknown tag.
	if got := c.Func()(nil, ""); got != "" {
		t.Errorf("Func on erroring script = %q, want empty", got)
	}
}
