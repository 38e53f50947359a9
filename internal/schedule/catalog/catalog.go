package catalog

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/runway/internal/config"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
)

type catalog struct {
	templates map[string]scheduledomain.Template
	order     []string
	defaults  map[string]string
	fallback  string
}

// New builds a catalog after validating every template and default mapping.
func New(templates []scheduledomain.Template, defaults map[string]string, fallback string) (scheduledomain.Catalog, error) {
	c := &catalog{
		templates: make(map[string]scheduledomain.Template, len(templates)),
		order:     make([]string, 0, len(templates)),
		defaults:  make(map[string]string, len(defaults)),
		fallback:  strings.TrimSpace(fallback),
	}

	for _, tpl := range templates {
		tpl.Name = strings.TrimSpace(tpl.Name)
		if err := tpl.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.templates[tpl.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", scheduledomain.ErrScheduleConfig, tpl.Name)
		}
		c.templates[tpl.Name] = tpl
		c.order = append(c.order, tpl.Name)
	}

	if _, ok := c.templates[c.fallback]; !ok {
		return nil, fmt.Errorf("%w: default template %q", scheduledomain.ErrTemplateNotFound, c.fallback)
	}
	for line, name := range defaults {
		name = strings.TrimSpace(name)
		if _, ok := c.templates[name]; !ok {
			return nil, fmt.Errorf("%w: template %q for business line %q", scheduledomain.ErrTemplateNotFound, name, line)
		}
		c.defaults[strings.TrimSpace(line)] = name
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() scheduledomain.Catalog {
	c, err := New(BuiltinTemplates(), BuiltinBusinessLineDefaults(), DefaultTemplateName)
	if err != nil {
		panic(err)
	}
	return c
}

// FromConfig builds a catalog from engine configuration. Without configured
// templates the built-in set is used; configured defaults still apply.
func FromConfig(cfg config.ScheduleConfig) (scheduledomain.Catalog, error) {
	templates := BuiltinTemplates()
	if len(cfg.Templates) > 0 {
		templates = make([]scheduledomain.Template, 0, len(cfg.Templates))
		for _, tc := range cfg.Templates {
			tpl := scheduledomain.Template{Name: tc.Name}
			for i, sc := range tc.Stages {
				base, ok := scheduledomain.ParseBase(sc.Base)
				if !ok {
					return nil, &scheduledomain.ScheduleConfigError{Template: tc.Name, Index: i, Reason: fmt.Sprintf("unknown base %q", sc.Base)}
				}
				tpl.Stages = append(tpl.Stages, scheduledomain.TemplateStage{
					Name:         sc.Name,
					Ratio:        sc.Ratio,
					OffsetMonths: sc.OffsetMonths,
					Base:         base,
				})
			}
			templates = append(templates, tpl)
		}
	}

	defaults := BuiltinBusinessLineDefaults()
	if len(cfg.BusinessLineTemplates) > 0 {
		defaults = cfg.BusinessLineTemplates
	}
	fallback := DefaultTemplateName
	if strings.TrimSpace(cfg.DefaultTemplate) != "" {
		fallback = cfg.DefaultTemplate
	}
	return New(templates, defaults, fallback)
}

func (c *catalog) Template(name string) (scheduledomain.Template, bool) {
	tpl, ok := c.templates[strings.TrimSpace(name)]
	return tpl, ok
}

// DefaultFor returns the business line's template or the global default.
func (c *catalog) DefaultFor(businessLine string) scheduledomain.Template {
	if name, ok := c.defaults[strings.TrimSpace(businessLine)]; ok {
		return c.templates[name]
	}
	return c.templates[c.fallback]
}

func (c *catalog) DefaultName() string { return c.fallback }

func (c *catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *catalog) Templates() []scheduledomain.Template {
	out := make([]scheduledomain.Template, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.templates[name])
	}
	return out
}
