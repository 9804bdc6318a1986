package domain

// Well-known console paths.
const (
	PathLogin        = "/login"
	PathUnauthorized = "/401"
)

// LayoutName identifies the page chrome a route is rendered in.
type LayoutName string

const (
	LayoutAuthenticated LayoutName = "AuthenticatedLayout"
	LayoutDefault       LayoutName = "DefaultLayout"
)

// Route is the metadata attached to every console route.
type Route struct {
	Method      string
	Path        string
	Name        string
	Permissions []Permission // any one grants access; empty = any authenticated user
	Layout      LayoutName
}
