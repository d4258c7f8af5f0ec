// Package courses holds per-course grading policy: the grader persona and the
// keyword lists used by the vision bonus and the offline fallback.
package courses

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

type Profile struct {
	Code            string   `yaml:"-"`
	Title           string   `yaml:"title"`
	Persona         string   `yaml:"persona"`
	VisionKeywords  []string `yaml:"vision_keywords"`
	PartialKeywords []string `yaml:"partial_keywords"`
}

type document struct {
	Default Profile            `yaml:"default"`
	Courses map[string]Profile `yaml:"courses"`
}

type Registry struct {
	def     Profile
	courses map[string]Profile
}

// Load reads profiles from path, or the embedded defaults when path is empty.
func Load(path string) (*Registry, error) {
	raw := defaultProfiles
	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read course profiles: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse course profiles: %w", err)
	}
	r := &Registry{def: doc.Default, courses: make(map[string]Profile, len(doc.Courses))}
	r.def.Code = ""
	for code, p := range doc.Courses {
		key := normalize(code)
		if key == "" {
			continue
		}
		p.Code = code
		r.courses[key] = inherit(p, r.def)
	}
	return r, nil
}

// Default returns the embedded profiles. It panics only if the embedded
// document is malformed.
func Default() *Registry {
	r, err := Parse(defaultProfiles)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the profile for code, falling back to the default profile.
func (r *Registry) Lookup(code string) Profile {
	if r == nil {
		return Profile{Code: code}
	}
	if p, ok := r.courses[normalize(code)]; ok {
		return p
	}
	p := r.def
	p.Code = code
	return p
}

func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.courses))
	for _, p := range r.courses {
		out = append(out, p.Code)
	}
	return out
}

// inherit fills unset fields from def. An explicit empty list is kept.
func inherit(p, def Profile) Profile {
	if strings.TrimSpace(p.Title) == "" {
		p.Title = def.Title
	}
	if strings.TrimSpace(p.Persona) == "" {
		p.Persona = def.Persona
	}
	if p.VisionKeywords == nil {
		p.VisionKeywords = def.VisionKeywords
	}
	if p.PartialKeywords == nil {
		p.PartialKeywords = def.PartialKeywords
	}
	return p
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MatchesVision reports whether any detected object name contains one of the
// profile's vision keywords, case-insensitively.
func (p Profile) MatchesVision(objects []string) bool {
	for _, obj := range objects {
		o := strings.ToLower(obj)
		for _, k := range p.VisionKeywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(o, k) {
				return true
			}
		}
	}
	return false
}
