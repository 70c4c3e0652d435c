package http

import (
	"net/http"
	"net/url"
)

// Routes reachable by navigation.
const (
	RouteLogin     = "/"
	RouteSignup    = "/signup"
	RouteDashboard = "/dashboard"
	RouteAnalytics = "/analytics"
)

// Navigation is the payload of the navigate trigger.
type Navigation struct {
	Path         string        `json:"path"`
	Replace      bool          `json:"replace"`
	Notification *Notification `json:"notification,omitempty"`
}

// loginWithEmail is the login route with the email field pre-filled.
func loginWithEmail(email string) string {
	if email == "" {
		return RouteLogin
	}
	return RouteLogin + "?" + url.Values{"email": {email}}.Encode()
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// navigate moves the browser to nav.Path. htmx requests get a navigate
// trigger so app.js can pick location.replace or location.assign; plain
// requests get 303 See Other.
func navigate(w http.ResponseWriter, r *http.Request, nav Navigation) {
	if isHTMX(r) {
		NewHTMXResponse().TriggerNavigate(nav).Write(w)
		return
	}
	http.Redirect(w, r, nav.Path, http.StatusSeeOther)
}
