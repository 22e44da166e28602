// Package pagetest simulates the login site on top of the scripted
// driver, so page objects and scenarios can run end to end without a
// device.
package pagetest

import (
	"context"
	"strings"
	"sync"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/driver/drivertest"
	"digital.vasic.mobilelogin/pkg/page"
)

// InvalidCredentialsText is the alert shown for a rejected sign-in.
const InvalidCredentialsText = "Invalid credentials"

// Site is a scripted login site. Navigating to a URL containing
// "login" renders the sign-in form; other URLs render the home page
// when signed in and a blank page otherwise.
type Site struct {
	*drivertest.Driver

	BaseURL string

	mu       sync.Mutex
	username string
	password string
	typedU   string
	typedP   string
	loggedIn bool
	accepts  func(username, password string) bool

	// HideLogoutLink renders the sign-out link only after the profile
	// menu is opened.
	HideLogoutLink bool
}

// SiteOption configures a Site.
type SiteOption func(*Site)

// WithAcceptance replaces the client-side check that enables the
// login button. The default enables it only for the known account.
func WithAcceptance(fn func(username, password string) bool) SiteOption {
	return func(s *Site) { s.accepts = fn }
}

// NewSite creates a site at baseURL that accepts one account.
func NewSite(baseURL, username, password string, opts ...SiteOption) *Site {
	s := &Site{
		Driver:   drivertest.New(),
		BaseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
	}
	s.accepts = func(u, p string) bool {
		return u == s.username && p == s.password
	}
	for _, opt := range opts {
		opt(s)
	}
	s.OnNavigate = s.render
	return s
}

// LoggedIn reports whether the last submit signed in.
func (s *Site) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Site) render(url string) {
	if strings.Contains(url, page.LoginPathMarker) {
		s.renderLogin()
		return
	}
	s.mu.Lock()
	loggedIn := s.loggedIn
	s.mu.Unlock()
	if loggedIn {
		s.renderHome()
		return
	}
	s.clear()
}

func (s *Site) clear() {
	for _, sel := range page.LoginSelectors {
		s.Remove(sel)
	}
	for _, sel := range page.HomeSelectors {
		s.Remove(sel)
	}
}

func (s *Site) renderLogin() {
	s.clear()
	s.mu.Lock()
	s.typedU, s.typedP = "", ""
	s.mu.Unlock()

	s.SetTitle("Sign in")
	s.Put(page.LoginSelectors[page.LoginForm], drivertest.Visible())

	username := drivertest.Visible()
	username.Attrs["type"] = "email"
	username.OnSetValue = func(v string) { s.typed(&s.typedU, v) }
	s.Put(page.LoginSelectors[page.Username], username)

	password := drivertest.Visible()
	password.Attrs["name"] = "password"
	password.OnSetValue = func(v string) { s.typed(&s.typedP, v) }
	s.Put(page.LoginSelectors[page.Password], password)

	button := drivertest.Visible()
	button.Text = "Sign in"
	button.OnClick = s.submit
	s.Put(page.LoginSelectors[page.LoginButton], button)
	s.syncButton()
}

func (s *Site) renderHome() {
	s.clear()
	s.SetTitle("Home")
	for _, name := range []string{
		page.NavigationMenu, page.AccountLink, page.Dashboard,
	} {
		s.Put(page.HomeSelectors[name], drivertest.Visible())
	}

	profile := drivertest.Visible()
	profile.OnClick = s.putLogout
	s.Put(page.HomeSelectors[page.UserProfile], profile)

	welcome := drivertest.Visible()
	welcome.Text = "Welcome back"
	s.Put(page.HomeSelectors[page.WelcomeMessage], welcome)

	if !s.HideLogoutLink {
		s.putLogout()
	}
}

func (s *Site) putLogout() {
	logout := drivertest.Visible()
	logout.Text = "Sign out"
	logout.OnClick = s.logout
	s.Put(page.HomeSelectors[page.LogoutButton], logout)
}

func (s *Site) typed(field *string, v string) {
	s.mu.Lock()
	*field = v
	s.mu.Unlock()
	s.syncButton()
}

func (s *Site) syncButton() {
	s.mu.Lock()
	enabled := s.accepts(s.typedU, s.typedP)
	s.mu.Unlock()

	btn := s.Get(page.LoginSelectors[page.LoginButton])
	if btn == nil {
		return
	}
	s.Do(func() {
		btn.Enabled = enabled
		if enabled {
			delete(btn.Attrs, "disabled")
		} else {
			btn.Attrs["disabled"] = "true"
		}
	})
}

func (s *Site) submit() {
	s.mu.Lock()
	u, p := s.typedU, s.typedP
	enabled := s.accepts(u, p)
	ok := enabled && u == s.username && p == s.password
	if ok {
		s.loggedIn = true
	}
	s.mu.Unlock()

	if !enabled {
		return
	}
	if ok {
		s.SetURL(s.BaseURL + "/")
		s.renderHome()
		return
	}
	alert := drivertest.Visible()
	alert.Text = InvalidCredentialsText
	s.Put(page.LoginSelectors[page.ErrorAlert], alert)
}

func (s *Site) logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()
	s.SetURL(s.BaseURL + "/login")
	s.renderLogin()
}

var _ driver.Driver = (*Site)(nil)

// Connector hands out s as every new session.
func (s *Site) Connector() driver.Connector {
	return func(
		ctx context.Context,
		_ string,
		_ config.Capabilities,
		_ config.AppiumConfig,
	) (driver.Driver, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Sites opens a fresh Site for every session, the way each test
// gets its own app instance on a device.
type Sites struct {
	mu    sync.Mutex
	newFn func() *Site
	all   []*Site
}

// NewSites creates a session factory of sites built like NewSite.
func NewSites(baseURL, username, password string, opts ...SiteOption) *Sites {
	return &Sites{newFn: func() *Site {
		return NewSite(baseURL, username, password, opts...)
	}}
}

// Connector returns a Connector creating one Site per call.
func (ss *Sites) Connector() driver.Connector {
	return func(
		ctx context.Context,
		_ string,
		_ config.Capabilities,
		_ config.AppiumConfig,
	) (driver.Driver, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := ss.newFn()
		ss.mu.Lock()
		ss.all = append(ss.all, s)
		ss.mu.Unlock()
		return s, nil
	}
}

// All returns every site opened so far, in order.
func (ss *Sites) All() []*Site {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return append([]*Site(nil), ss.all...)
}
