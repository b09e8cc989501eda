package view

import (
	"github.com/yourorg/trading-dashboard/internal/session"
)

// NavItem is one entry of the sidebar
type NavItem struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	Icon   string `json:"icon"`
	Active bool   `json:"active,omitempty"`
}

var baseNavigation = []NavItem{
	{Title: "Dashboard", Path: "/", Icon: "layout-dashboard"},
	{Title: "Trading Performance", Path: "/performance", Icon: "trending-up"},
	{Title: "Market Analysis", Path: "/market", Icon: "bar-chart-3"},
	{Title: "Content Studio", Path: "/content", Icon: "video"},
	{Title: "Bot Settings", Path: "/settings", Icon: "settings"},
}

var adminNavigation = NavItem{Title: "Admin Panel", Path: "/admin", Icon: "shield"}

// Navigation returns the sidebar entries the viewer may see. Admin Panel is
// listed only for admins.
func Navigation(sess session.Context) []NavItem {
	items := make([]NavItem, len(baseNavigation), len(baseNavigation)+1)
	copy(items, baseNavigation)
	if sess.IsAdmin() {
		items = append(items, adminNavigation)
	}
	return items
}

// MarkActive flags the entry for the current path
func MarkActive(items []NavItem, path string) []NavItem {
	for i := range items {
		items[i].Active = items[i].Path == path
	}
	return items
}
