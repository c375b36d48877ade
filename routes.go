package shopgate

import (
	"fmt"
	"regexp"
)

// RouteMeta is the SEO metadata injected into the shell document for a
// recognized frontend route.
type RouteMeta struct {
	Title       string
	Description string
	Canonical   string
}

type patternRoute struct {
	re          *regexp.Regexp
	title       string
	description string
}

// RouteTable is the ordered set of recognized frontend routes: exact-match
// paths plus compiled patterns for dynamic detail pages. It is built once
// at startup and read-only thereafter.
type RouteTable struct {
	exact    map[string]RouteMeta
	order    []string
	patterns []patternRoute
}

// NewRouteTable builds the frontend route table for the storefront.
func NewRouteTable() *RouteTable {
	t := &RouteTable{exact: make(map[string]RouteMeta)}

	add := func(path, title, description string) {
		t.exact[path] = RouteMeta{Title: title, Description: description, Canonical: path}
		t.order = append(t.order, path)
	}

	add("/", "Home", "Shop the latest products at great prices")
	add("/products", "Products", "Browse our full product catalog")
	add("/categories", "Categories", "Shop by category")
	add("/cart", "Shopping Cart", "Review the items in your cart")
	add("/checkout", "Checkout", "Complete your purchase securely")
	add("/orders", "Your Orders", "Track and manage your orders")
	add("/account", "Your Account", "Manage your account settings")
	add("/login", "Sign In", "Sign in to your account")
	add("/register", "Create Account", "Create a new account")
	add("/search", "Search", "Search the product catalog")
	add("/about", "About Us", "Learn more about our store")
	add("/contact", "Contact", "Get in touch with us")

	pattern := func(expr, title, description string) {
		t.patterns = append(t.patterns, patternRoute{
			re:          regexp.MustCompile(expr),
			title:       title,
			description: description,
		})
	}

	pattern(`^/products/(\d+)$`, "Product %s", "View details, pricing, and availability for product %s")
	pattern(`^/categories/([a-z0-9-]+)$`, "Category: %s", "Browse products in the %s category")
	pattern(`^/orders/(\d+)$`, "Order %s", "Status and details for order %s")

	return t
}

// Match reports whether path is a recognized frontend route and returns its
// metadata. Exact entries are consulted before patterns; pattern matches
// substitute the first capture into the title and description.
func (t *RouteTable) Match(path string) (RouteMeta, bool) {
	if meta, ok := t.exact[path]; ok {
		return meta, true
	}

	for _, p := range t.patterns {
		m := p.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		capture := ""
		if len(m) > 1 {
			capture = m[1]
		}
		return RouteMeta{
			Title:       fmt.Sprintf(p.title, capture),
			Description: fmt.Sprintf(p.description, capture),
			Canonical:   path,
		}, true
	}

	return RouteMeta{}, false
}

// Paths returns the exact route paths in registration order.
func (t *RouteTable) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
