// Package widgets maps the widget keys stored in page layouts to render
// functions, and assembles rendered sections for the front-end.
package widgets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
)

var (
	ErrEmptyKey      = errors.New("widget key is required")
	ErrDuplicateKey  = errors.New("widget key already registered")
	ErrMissingRender = errors.New("widget render function is required")
	ErrUnknownWidget = errors.New("unknown widget")
	ErrInvalidProps  = errors.New("invalid widget props")
)

// Props is the free-form configuration stored with a widget in a page layout.
type Props map[string]interface{}

// WidgetConfig is one entry of a page layout.
type WidgetConfig struct {
	Key   string `json:"key" binding:"required"`
	Props Props  `json:"props,omitempty"`
}

// Section is a rendered widget ready for the front-end component of the same name.
type Section struct {
	Key       string                 `json:"key"`
	Component string                 `json:"component"`
	Category  string                 `json:"category"`
	Props     map[string]interface{} `json:"props"`
}

// DataSource is what render functions may read.
type DataSource interface {
	PublishedSection(ctx context.Context, pageSlug, sectionType string, lang models.Language) (*models.Content, error)
	ActiveProducts(ctx context.Context, lang models.Language, limit int) ([]models.Product, error)
	TechStack(ctx context.Context, pageSlug string, lang models.Language) ([]models.TechStackSection, error)
}

type RenderContext struct {
	PageSlug string
	Language models.Language
	Data     DataSource
}

// RenderFunc returns the section props. A nil map with a nil error means
// there is nothing to show and the section is left out of the page.
type RenderFunc func(ctx context.Context, rc RenderContext, props Props) (map[string]interface{}, error)

type Definition struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Description string     `json:"description"`
	Component   string     `json:"component"`
	Render      RenderFunc `json:"-"`
	// ValidateProps is optional and runs when a layout is saved.
	ValidateProps func(Props) error `json:"-"`
}

func (d Definition) hasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(def.Key) == "" {
		return ErrEmptyKey
	}
	if def.Render == nil {
		return fmt.Errorf("%w: %s", ErrMissingRender, def.Key)
	}
	if def.Component == "" {
		def.Component = def.Key
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, def.Key)
	}
	r.defs[def.Key] = def
	return nil
}

func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(key string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[key]
	return def, ok
}

// Catalog lists definitions sorted by key; empty filters match everything.
func (r *Registry) Catalog(category, tag string) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		if category != "" && !strings.EqualFold(def.Category, category) {
			continue
		}
		if tag != "" && !def.hasTag(tag) {
			continue
		}
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, def := range r.defs {
		if !seen[def.Category] {
			seen[def.Category] = true
			out = append(out, def.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Validate reports every unknown key in a layout, then the first widget
// whose props are rejected.
func (r *Registry) Validate(configs []WidgetConfig) error {
	var unknown []string
	for _, cfg := range configs {
		if _, ok := r.Lookup(cfg.Key); !ok {
			unknown = append(unknown, cfg.Key)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, strings.Join(unknown, ", "))
	}

	for i, cfg := range configs {
		def, _ := r.Lookup(cfg.Key)
		if def.ValidateProps == nil {
			continue
		}
		props := cfg.Props
		if props == nil {
			props = Props{}
		}
		if err := def.ValidateProps(props); err != nil {
			return fmt.Errorf("%w: widgets[%d] %s: %v", ErrInvalidProps, i, cfg.Key, err)
		}
	}
	return nil
}

// Render renders a single widget. ok is false when the widget has nothing to show.
func (r *Registry) Render(ctx context.Context, rc RenderContext, cfg WidgetConfig) (section Section, ok bool, err error) {
	def, found := r.Lookup(cfg.Key)
	if !found {
		return Section{}, false, fmt.Errorf("%w: %s", ErrUnknownWidget, cfg.Key)
	}

	props := cfg.Props
	if props == nil {
		props = Props{}
	}
	rendered, err := def.Render(ctx, rc, props)
	if err != nil {
		return Section{}, false, fmt.Errorf("render %s: %w", cfg.Key, err)
	}
	if rendered == nil {
		return Section{}, false, nil
	}

	return Section{
		Key:       def.Key,
		Component: def.Component,
		Category:  def.Category,
		Props:     rendered,
	}, true, nil
}

// RenderPage renders a layout in order. Unknown keys are skipped with a
// warning so a stale layout never takes a page down.
func (r *Registry) RenderPage(ctx context.Context, rc RenderContext, configs []WidgetConfig) ([]Section, error) {
	sections := make([]Section, 0, len(configs))
	for _, cfg := range configs {
		section, ok, err := r.Render(ctx, rc, cfg)
		if errors.Is(err, ErrUnknownWidget) {
			logger.Warn().Str("widget", cfg.Key).Str("page", rc.PageSlug).Msg("Skipping unknown widget")
			continue
		}
		if err != nil {
			return nil, err
		}
		if ok {
			sections = append(sections, section)
		}
	}
	return sections, nil
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry with the built-in widgets.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}
