package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewTemplate_RequiresPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "both placeholders", text: "at {timestamp}: {scene_description}", wantErr: false},
		{name: "missing timestamp", text: "{scene_description}", wantErr: true},
		{name: "missing description", text: "{timestamp}", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTemplate("custom", tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingPlaceholder) {
					t.Errorf("expected ErrMissingPlaceholder, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuilder_DefaultsAndSwap(t *testing.T) {
	b := NewBuilder(nil)
	if b.Template().Name() != VariantConsolidated {
		t.Errorf("expected default variant, got %s", b.Template().Name())
	}

	custom, err := NewTemplate("short", "{timestamp}|{scene_description}")
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}
	b.Swap(custom)

	got := b.Build([]DetectedObject{{Label: "cat", Count: 1, Confidence: 0.9, Positions: []Position{{1, 2}}}}, "now")
	want := "now|There are 1 cat(s) detected with 90.0% confidence at positions (1, 2)."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	b.Swap(nil)
	if b.Template() != custom {
		t.Error("swapping nil should keep the current template")
	}
}

func TestBuilder_ConcurrentBuildAndSwap(t *testing.T) {
	b := NewBuilder(nil)
	classic, _ := NewCatalog().Get(VariantClassic)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if b.Build(nil, "ts") == "" {
				t.Error("prompt should never be empty")
			}
		}()
		go func() {
			defer wg.Done()
			b.Swap(classic)
		}()
	}
	wg.Wait()
}

func writePromptFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}
	return path
}

func TestLoadCatalog_NoFile(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if c.Default != VariantConsolidated {
		t.Errorf("expected default %s, got %s", VariantConsolidated, c.Default)
	}
	names := c.Names()
	if len(names) != 2 || names[0] != VariantClassic || names[1] != VariantConsolidated {
		t.Errorf("unexpected variants: %v", names)
	}
}

func TestLoadCatalog_FileVariants(t *testing.T) {
	path := writePromptFile(t, t.TempDir(), `
default: brief
variants:
  brief: |
    Narrate briefly what is seen at {timestamp}.
    {scene_description}
`)

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	tmpl, err := c.Get("")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tmpl.Name() != "brief" {
		t.Errorf("expected brief, got %s", tmpl.Name())
	}
	if !strings.HasPrefix(tmpl.Render(nil, "noon"), "Narrate briefly what is seen at noon.") {
		t.Errorf("unexpected render: %q", tmpl.Render(nil, "noon"))
	}

	if _, err := c.Get(VariantClassic); err != nil {
		t.Errorf("built-in variants should remain available: %v", err)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		target  error
	}{
		{name: "missing placeholder", content: "variants:\n  bad: \"no placeholders\"\n", target: ErrMissingPlaceholder},
		{name: "unknown default", content: "default: nope\n", target: ErrUnknownVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePromptFile(t, dir, tt.content)
			_, err := LoadCatalog(path)
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}

	if _, err := LoadCatalog(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writePromptFile(t, dir, "variants: [unclosed")
	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestCatalog_GetUnknown(t *testing.T) {
	_, err := NewCatalog().Get("missing")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}
