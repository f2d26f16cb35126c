package profiles

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dials.yaml", `
dials:
  - uid: " uid1 "
    name: CPU
    value: 0
    color: {red: 70, green: 35, blue: 70}
    easing:
      dial: {period: 50, step: 5}
    background: images/cpu.png
  - uid: uid2
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(all))
	}

	p, ok := reg.ByUID("uid1")
	if !ok {
		t.Fatalf("expected uid1 to be loaded")
	}
	if p.Value == nil || *p.Value != 0 {
		t.Fatalf("zero value must be kept, got %v", p.Value)
	}
	if p.Color == nil || p.Color.Red != 70 || p.Color.Blue != 70 {
		t.Fatalf("unexpected color %#v", p.Color)
	}
	if p.Easing == nil || p.Easing.Dial == nil || p.Easing.Backlight != nil {
		t.Fatalf("unexpected easing %#v", p.Easing)
	}
	if want := filepath.Join(dir, "images/cpu.png"); p.Background != want {
		t.Fatalf("background = %s, want %s", p.Background, want)
	}

	if q, _ := reg.ByUID("uid2"); q.Value != nil || q.Color != nil || q.Easing != nil {
		t.Fatalf("uid2 should have nothing set: %#v", q)
	}
}

func TestLoadRegistryTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dials.toml", `
[[dials]]
uid = "uid1"
value = 42

[dials.color]
red = 255
green = 0
blue = 0
`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	p, ok := reg.ByUID("uid1")
	if !ok || p.Value == nil || *p.Value != 42 || p.Color == nil || p.Color.Red != 255 {
		t.Fatalf("unexpected profile %#v", p)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dials.json", `{"dials":[{"uid":"uid1","name":"GPU"}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if p, _ := reg.ByUID("uid1"); p.Name != "GPU" {
		t.Fatalf("unexpected name %q", p.Name)
	}
}

func TestLoadRegistryRejectsMissingUID(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dials.yaml", `
dials:
  - name: nameless
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected validation error for missing uid")
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dials.yaml", `
dials:
  - uid: dup
  - uid: dup
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate uid error")
	}
}

func TestLoadRegistryEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dials.yaml", "dials: []\n")
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected error for empty profiles file")
	}
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
