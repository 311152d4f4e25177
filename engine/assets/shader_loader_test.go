package assets

import (
	"strings"
	"testing"
)

func TestLoadShader(t *testing.T) {
	for _, name := range []string{"view.vert", "view.frag"} {
		src, err := LoadShader(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.HasSuffix(src, "\x00") {
			t.Errorf("%s: expected null terminator", name)
		}
		if !strings.HasPrefix(src, "#version 330 core") {
			t.Errorf("%s: expected version header, got %q", name, src[:20])
		}
	}
	if _, err := LoadShader("missing.frag"); err == nil {
		t.Error("expected error for missing shader")
	}
}
