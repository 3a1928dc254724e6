package testmail

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// PromptTemplate is a prompt with {store_name}, {order_number}, {num_emails}
// and {policy_text} placeholders.
type PromptTemplate string

// LocaleInfo describes one supported locale.
type LocaleInfo struct {
	Name    string `json:"name"`
	Tag     string `json:"tag"`
	Default bool   `json:"default,omitempty"`
}

type templateTable struct {
	Default string `yaml:"default"`
	Locales []struct {
		Name     string `yaml:"name"`
		Tag      string `yaml:"tag"`
		Template string `yaml:"template"`
	} `yaml:"locales"`
}

type registryEntry struct {
	info     LocaleInfo
	tag      language.Tag
	template PromptTemplate
}

// Registry is a read-only table of prompt templates keyed by locale.
// Lookups never fail: unknown locales resolve to the default entry.
type Registry struct {
	entries []registryEntry
	byName  map[string]int
	def     int
}

// NewRegistry parses a YAML template table. Tables with a template missing
// a placeholder, a duplicate or malformed locale, or no default entry are
// rejected.
func NewRegistry(data []byte) (*Registry, error) {
	var table templateTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.Join(ErrConfiguration, fmt.Errorf("parse template table: %w", err))
	}
	if len(table.Locales) == 0 {
		return nil, fmt.Errorf("%w: template table is empty", ErrConfiguration)
	}

	r := &Registry{
		entries: make([]registryEntry, 0, len(table.Locales)),
		byName:  make(map[string]int, len(table.Locales)),
		def:     -1,
	}
	for _, l := range table.Locales {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: locale without a name", ErrConfiguration)
		}
		key := foldName(name)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate locale %q", ErrConfiguration, name)
		}
		tag, err := language.Parse(l.Tag)
		if err != nil {
			return nil, errors.Join(ErrConfiguration, fmt.Errorf("locale %q: %w", name, err))
		}
		if missing := missingPlaceholders(l.Template); len(missing) > 0 {
			return nil, &FormattingError{Locale: name, Missing: missing}
		}

		isDefault := foldName(table.Default) == key
		if isDefault {
			r.def = len(r.entries)
		}
		r.byName[key] = len(r.entries)
		r.entries = append(r.entries, registryEntry{
			info:     LocaleInfo{Name: name, Tag: tag.String(), Default: isDefault},
			tag:      tag,
			template: PromptTemplate(l.Template),
		})
	}
	if r.def < 0 {
		return nil, fmt.Errorf("%w: default locale %q has no template", ErrConfiguration, table.Default)
	}

	return r, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return NewRegistry(defaultTemplates)
})

// DefaultRegistry returns the registry built from the embedded template table.
func DefaultRegistry() (*Registry, error) {
	return defaultRegistry()
}

// MustDefaultRegistry is like DefaultRegistry but panics on a corrupt table.
func MustDefaultRegistry() *Registry {
	r, err := DefaultRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Template returns the template for locale, or the default template when
// the locale is not supported.
func (r *Registry) Template(locale string) PromptTemplate {
	return r.entries[r.lookup(locale)].template
}

// Resolve reports which locale a lookup lands on. ok is false when the
// default was used as a fallback.
func (r *Registry) Resolve(locale string) (info LocaleInfo, ok bool) {
	idx, ok := r.find(locale)
	if !ok {
		idx = r.def
	}
	return r.entries[idx].info, ok
}

// Default returns the fallback locale.
func (r *Registry) Default() LocaleInfo {
	return r.entries[r.def].info
}

// Locales returns supported locales in table order.
func (r *Registry) Locales() []LocaleInfo {
	out := make([]LocaleInfo, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.info
	}
	return out
}

func (r *Registry) lookup(locale string) int {
	if idx, ok := r.find(locale); ok {
		return idx
	}
	return r.def
}

// find matches display names case-insensitively after NFC normalization,
// then BCP 47 tags by base language (so "de-AT" finds Deutsch).
func (r *Registry) find(locale string) (int, bool) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return 0, false
	}
	if idx, ok := r.byName[foldName(locale)]; ok {
		return idx, true
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return 0, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return 0, false
	}
	for i, e := range r.entries {
		if b, _ := e.tag.Base(); b == base {
			return i, true
		}
	}
	return 0, false
}

func foldName(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
