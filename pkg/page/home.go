package page

import (
	"context"

	"digital.vasic.mobilelogin/pkg/action"
	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/wait"
)

// Home page element names.
const (
	UserProfile    = "user_profile"
	LogoutButton   = "logout_button"
	WelcomeMessage = "welcome_message"
	NavigationMenu = "navigation_menu"
	AccountLink    = "account_link"
	Dashboard      = "dashboard"
)

// HomeSelectors locate the home page elements.
var HomeSelectors = map[string]driver.Selector{
	UserProfile: driver.CSS(`[class*="profile"], [class*="user"], ` +
		`[class*="account"], a[href*="account"], a[href*="profile"]`),
	LogoutButton:   driver.ContainsText("a", "Sign out"),
	WelcomeMessage: driver.CSS(`[class*="welcome"], h1, h2, [class*="greeting"]`),
	NavigationMenu: driver.CSS(`nav, [role="navigation"], [class*="nav"], [class*="menu"]`),
	AccountLink:    driver.CSS(`a[href*="My Account"]`),
	Dashboard:      driver.CSS(`main, [class*="dashboard"], [class*="content"]`),
}

// LoginFailureArtifact names the screenshot taken when the
// post-login check fails.
const LoginFailureArtifact = "login-assertion-failure"

// HomePage is the landing page after a successful sign-in.
type HomePage struct {
	Actions
	url      string
	elements Selectors
}

// NewHomePage creates the home page object served at url.
func NewHomePage(a Actions, url string) *HomePage {
	return &HomePage{
		Actions:  a,
		url:      url,
		elements: locate(a, HomeSelectors),
	}
}

// URL returns the page address.
func (p *HomePage) URL() string { return p.url }

// Element returns a fresh handle for the named element.
func (p *HomePage) Element(name string) driver.Element {
	return p.elements[name]()
}

func (p *HomePage) NavigateToAccount(ctx context.Context) error {
	return p.Executor().Do(ctx, "navigate to account page", func(ctx context.Context) error {
		if err := p.Click(ctx, p.Element(AccountLink), "Account link"); err != nil {
			return err
		}
		p.Logger().Info("Navigated to account page")
		return nil
	})
}

func (p *HomePage) ClickUserProfile(ctx context.Context) error {
	return p.Executor().Do(ctx, "click user profile", func(ctx context.Context) error {
		if err := p.Click(ctx, p.Element(UserProfile), "User profile"); err != nil {
			return err
		}
		p.Logger().Info("User profile clicked")
		return nil
	})
}

// Logout signs out through the direct link, or through the profile
// menu when the link is hidden, and waits for the login page.
func (p *HomePage) Logout(ctx context.Context) error {
	return p.Executor().Do(ctx, "logout", func(ctx context.Context) error {
		if p.IsExisting(ctx, p.Element(LogoutButton)) {
			if err := p.Click(ctx, p.Element(LogoutButton), "Logout button"); err != nil {
				return err
			}
		} else if err := p.logoutViaProfile(ctx); err != nil {
			return err
		}

		err := p.Waiter().WaitUntil(ctx,
			wait.URLContains(p.Driver(), LoginPathMarker),
			p.Timings().LogoutRedirect,
			"Did not redirect to login page after logout",
		)
		if err != nil {
			return err
		}
		p.Logger().Info("Logout successful")
		return nil
	})
}

func (p *HomePage) logoutViaProfile(ctx context.Context) error {
	if err := p.ClickUserProfile(ctx); err != nil {
		return err
	}
	if err := p.Waiter().Pause(ctx, p.Timings().ProfilePause); err != nil {
		return err
	}
	return p.Click(ctx, p.Element(LogoutButton), "Logout button")
}

// IsUserLoggedIn reports whether the browser is off the login page
// and shows a profile or account element.
func (p *HomePage) IsUserLoggedIn(ctx context.Context) bool {
	url, err := p.CurrentURL(ctx)
	if err != nil {
		return false
	}
	if containsLogin(url) {
		return false
	}
	return p.IsExisting(ctx, p.Element(UserProfile)) ||
		p.IsExisting(ctx, p.Element(AccountLink))
}

// WelcomeMessage returns the greeting text, or "".
func (p *HomePage) WelcomeMessage(ctx context.Context) string {
	return p.visibleText(ctx, WelcomeMessage)
}

// PageContent returns the main content text, or "".
func (p *HomePage) PageContent(ctx context.Context) string {
	return p.visibleText(ctx, Dashboard)
}

func (p *HomePage) visibleText(ctx context.Context, name string) string {
	el := p.Element(name)
	if !p.IsDisplayed(ctx, el) {
		return ""
	}
	text, err := p.Text(ctx, el)
	if err != nil {
		return ""
	}
	return text
}

// AssertSuccessfulLogin requires a redirect away from the login page
// and at least one signed-in indicator. A failure captures the
// login-assertion-failure screenshot.
func (p *HomePage) AssertSuccessfulLogin(ctx context.Context) error {
	return p.Executor().Do(ctx, "assert successful login", func(ctx context.Context) error {
		if err := p.WaitForHomePageLoad(ctx); err != nil {
			return err
		}

		url, err := p.CurrentURL(ctx)
		if err != nil {
			return err
		}
		if err := p.Checker().False(containsLogin(url),
			"User is redirected away from login page"); err != nil {
			return err
		}

		if err := p.Checker().True(p.hasLoginIndicators(ctx),
			"User is successfully logged in (profile/account elements present)"); err != nil {
			return err
		}

		p.Logger().Info("Successful login assertion passed")
		p.TakeScreenshot(ctx, "successful-login")
		return nil
	}, action.OnFailureArtifact(LoginFailureArtifact))
}

func (p *HomePage) AssertNavigationVisible(ctx context.Context) error {
	return p.Executor().Do(ctx, "assert navigation visible", func(ctx context.Context) error {
		if err := p.Checker().Displayed(ctx, p.Element(NavigationMenu),
			"Navigation menu"); err != nil {
			return err
		}
		p.Logger().Info("Navigation menu visibility assertion passed")
		return nil
	})
}

// WaitForHomePageLoad waits for the document and for the URL to leave
// the login page.
func (p *HomePage) WaitForHomePageLoad(ctx context.Context) error {
	if err := p.Waiter().WaitForPageReady(ctx, 0); err != nil {
		return err
	}
	err := p.Waiter().WaitUntil(ctx,
		wait.URLNotContains(p.Driver(), LoginPathMarker),
		0,
		"Home page did not load within timeout",
	)
	if err != nil {
		return err
	}
	p.Logger().Info("Home page loaded successfully")
	return nil
}

func (p *HomePage) hasLoginIndicators(ctx context.Context) bool {
	return p.IsExisting(ctx, p.Element(UserProfile)) ||
		p.IsExisting(ctx, p.Element(AccountLink)) ||
		p.IsExisting(ctx, p.Element(Dashboard))
}
