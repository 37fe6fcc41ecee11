package httpserver

// NavItem is one header navigation link.
type NavItem struct {
	Label string
	Href  string
}

// ContactHref is the header contact action.
const ContactHref = "mailto:info@leaseboost.fr"

// NavFor maps the current path to the header's link set and whether the
// "analyse active" badge is shown. Pure lookup, never driven by data.
func NavFor(path string) (items []NavItem, showStatus bool) {
	switch path {
	case "/analysis":
		return []NavItem{
			{Label: "Accueil", Href: "/"},
			{Label: "+ Nouvelle Analyse", Href: "/"},
			{Label: "Contact", Href: ContactHref},
		}, true
	default: // Home
		return []NavItem{
			{Label: "Accueil", Href: "/"},
			{Label: "A propos", Href: "/"},
			{Label: "Contact", Href: ContactHref},
		}, false
	}
}
