package service

import (
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/pkg/metrics"
)

// MenuItem is a sidebar link gated by permissions.
type MenuItem struct {
	Name        string              `json:"name"`
	Path        string              `json:"path"`
	Icon        string              `json:"icon,omitempty"`
	Permissions []domain.Permission `json:"-"`
}

// MenuCategory groups sidebar links under a heading.
type MenuCategory struct {
	Category    string              `json:"category"`
	Permissions []domain.Permission `json:"-"`
	Children    []MenuItem          `json:"children"`
}

// sidebar is the full menu; Render trims it to what the viewer may open.
var sidebar = []MenuCategory{
	{
		Category:    "links.content.index",
		Permissions: []domain.Permission{domain.PermViewDashboard, domain.PermViewUsers},
		Children: []MenuItem{
			{Name: "links.content.dashboard", Path: "/", Icon: "viewDashboard", Permissions: []domain.Permission{domain.PermViewDashboard}},
			{Name: "links.content.users", Path: "/users", Icon: "accountMultiple", Permissions: []domain.Permission{domain.PermViewUsers}},
		},
	},
}

// Layout is the page chrome a route renders in.
type Layout struct {
	Name        domain.LayoutName
	WithSidebar bool
}

// RenderedLayout is the layout as sent to the client.
type RenderedLayout struct {
	Name domain.LayoutName `json:"name"`
	Menu []MenuCategory    `json:"menu,omitempty"`
}

// Render builds the chrome for the viewer; the sidebar only lists links the
// viewer holds a permission for.
func (l Layout) Render(viewer *domain.AuthenticatedUserData) RenderedLayout {
	out := RenderedLayout{Name: l.Name}
	if !l.WithSidebar || viewer == nil {
		return out
	}
	for _, cat := range sidebar {
		if !viewer.Can(cat.Permissions...) {
			continue
		}
		visible := MenuCategory{Category: cat.Category, Permissions: cat.Permissions}
		for _, item := range cat.Children {
			if viewer.Can(item.Permissions...) {
				visible.Children = append(visible.Children, item)
			}
		}
		out.Menu = append(out.Menu, visible)
	}
	return out
}

// LayoutLoader resolves layout names through a fixed table with an explicit default.
type LayoutLoader struct {
	layouts  map[domain.LayoutName]Layout
	fallback domain.LayoutName
	log      zerolog.Logger
}

func NewLayoutLoader(log zerolog.Logger) *LayoutLoader {
	return &LayoutLoader{
		layouts: map[domain.LayoutName]Layout{
			domain.LayoutAuthenticated: {Name: domain.LayoutAuthenticated, WithSidebar: true},
			domain.LayoutDefault:       {Name: domain.LayoutDefault},
		},
		fallback: domain.LayoutDefault,
		log:      log,
	}
}

// Resolve returns the layout registered under name, or the default layout
// when name is unknown. It never fails.
func (l *LayoutLoader) Resolve(name domain.LayoutName) Layout {
	if layout, ok := l.layouts[name]; ok {
		return layout
	}
	l.log.Error().Str("layout", string(name)).Str("fallback", string(l.fallback)).Msg("unknown layout, mounting default")
	metrics.LayoutFallbacksTotal.WithLabelValues(string(name)).Inc()
	return l.layouts[l.fallback]
}
