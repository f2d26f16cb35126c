package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Profile is the desired state of one dial. Unset fields are left alone.
type Profile struct {
	UID        string  `json:"uid" yaml:"uid" toml:"uid" validate:"required"`
	Name       string  `json:"name,omitempty" yaml:"name" toml:"name"`
	Value      *int    `json:"value,omitempty" yaml:"value" toml:"value"`
	Color      *Color  `json:"color,omitempty" yaml:"color" toml:"color"`
	Easing     *Easing `json:"easing,omitempty" yaml:"easing" toml:"easing"`
	Background string  `json:"background,omitempty" yaml:"background" toml:"background"`
}

// Color is a backlight color. Channels are passed to the server unchecked.
type Color struct {
	Red   int `json:"red" yaml:"red" toml:"red"`
	Green int `json:"green" yaml:"green" toml:"green"`
	Blue  int `json:"blue" yaml:"blue" toml:"blue"`
}

// Easing groups needle and backlight easing.
type Easing struct {
	Dial      *EasingStep `json:"dial,omitempty" yaml:"dial" toml:"dial"`
	Backlight *EasingStep `json:"backlight,omitempty" yaml:"backlight" toml:"backlight"`
}

// EasingStep is one (period, step) pair.
type EasingStep struct {
	Period int `json:"period" yaml:"period" toml:"period"`
	Step   int `json:"step" yaml:"step" toml:"step"`
}

type profilesFile struct {
	Dials []Profile `json:"dials" yaml:"dials" toml:"dials" validate:"dive"`
}

// Registry holds the profiles loaded from a file.
type Registry struct {
	mu       sync.RWMutex
	profiles []Profile
	idx      map[string]Profile
}

// LoadRegistry loads dial profiles from a YAML, JSON or TOML file. Relative
// background paths are resolved against the file's directory.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	parsed, err := parseProfiles(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Dials) == 0 {
		return nil, errors.New("profiles file contains no dials entries")
	}

	baseDir := filepath.Dir(path)
	for i := range parsed.Dials {
		parsed.Dials[i] = sanitizeProfile(parsed.Dials[i], baseDir)
	}
	return newRegistry(parsed)
}

// NewRegistry builds a registry from in-memory profiles.
func NewRegistry(profiles []Profile) (*Registry, error) {
	cp := make([]Profile, len(profiles))
	for i, p := range profiles {
		cp[i] = sanitizeProfile(p, "")
	}
	return newRegistry(profilesFile{Dials: cp})
}

func newRegistry(parsed profilesFile) (*Registry, error) {
	if err := validator.New().Struct(parsed); err != nil {
		return nil, fmt.Errorf("invalid profiles: %w", err)
	}

	reg := &Registry{
		profiles: make([]Profile, len(parsed.Dials)),
		idx:      make(map[string]Profile, len(parsed.Dials)),
	}
	for i, p := range parsed.Dials {
		if _, exists := reg.idx[p.UID]; exists {
			return nil, fmt.Errorf("duplicate dial uid %q", p.UID)
		}
		reg.profiles[i] = p
		reg.idx[p.UID] = p
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseProfiles(data []byte, ext string) (profilesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
		{name: "toml", ext: ".toml", fn: toml.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out profilesFile
		if err := d.fn(data, &out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s profiles: %w", d.name, err))
			continue
		}
		return out, nil
	}
	if len(errs) > 0 {
		return profilesFile{}, errors.Join(errs...)
	}
	return profilesFile{}, errors.New("profiles file format not recognized (expected YAML, JSON or TOML)")
}

func sanitizeProfile(p Profile, baseDir string) Profile {
	p.UID = strings.TrimSpace(p.UID)
	p.Name = strings.TrimSpace(p.Name)
	p.Background = strings.TrimSpace(p.Background)
	if p.Background != "" && baseDir != "" && !filepath.IsAbs(p.Background) {
		p.Background = filepath.Join(baseDir, p.Background)
	}
	if p.Easing != nil && p.Easing.Dial == nil && p.Easing.Backlight == nil {
		p.Easing = nil
	}
	return p
}

// All returns the profiles in file order.
func (r *Registry) All() []Profile {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// ByUID returns the profile for uid.
func (r *Registry) ByUID(uid string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[strings.TrimSpace(uid)]
	return p, ok
}
