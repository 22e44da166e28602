package page

import (
	"context"
	"fmt"
	"strings"

	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/wait"
)

// Login page element names.
const (
	Username    = "username"
	Password    = "password"
	LoginButton = "login_button"
	ErrorAlert  = "error_message"
	LoginForm   = "login_form"
	RememberMe  = "remember_me"
)

// LoginSelectors locate the login page elements.
var LoginSelectors = map[string]driver.Selector{
	Username:    driver.CSS(`input[type="email"]`),
	Password:    driver.CSS(`input[name="password"]`),
	LoginButton: driver.ContainsText("button", "Sign in"),
	ErrorAlert:  driver.CSS(`[role="alert"]`),
	LoginForm:   driver.CSS(`form, [class*="login"], [id*="login"]`),
	RememberMe:  driver.CSS(`input[type="checkbox"][name*="remember"]`),
}

// LoginPathMarker is the URL fragment identifying the login page.
const LoginPathMarker = "login"

func containsLogin(url string) bool {
	return strings.Contains(url, LoginPathMarker)
}

// LoginPage drives the sign-in form.
type LoginPage struct {
	Actions
	url      string
	elements Selectors
}

// NewLoginPage creates the login page object served at url.
func NewLoginPage(a Actions, url string) *LoginPage {
	return &LoginPage{
		Actions:  a,
		url:      url,
		elements: locate(a, LoginSelectors),
	}
}

// URL returns the page address.
func (p *LoginPage) URL() string { return p.url }

// Element returns a fresh handle for the named element.
func (p *LoginPage) Element(name string) driver.Element {
	return p.elements[name]()
}

func (p *LoginPage) UsernameInput() driver.Element { return p.Element(Username) }
func (p *LoginPage) PasswordInput() driver.Element { return p.Element(Password) }
func (p *LoginPage) LoginButton() driver.Element   { return p.Element(LoginButton) }
func (p *LoginPage) ErrorAlert() driver.Element    { return p.Element(ErrorAlert) }

// Open navigates to the login page and waits for the form.
func (p *LoginPage) Open(ctx context.Context) error {
	p.Logger().LogStep(logging.StepLog{Description: "Opening login page"})
	if err := p.NavigateTo(ctx, p.url); err != nil {
		return err
	}
	if err := p.WaitForPageToLoad(ctx); err != nil {
		return err
	}
	p.Logger().Info("Login page opened successfully")
	return nil
}

func (p *LoginPage) EnterUsername(ctx context.Context, username string) error {
	return p.Type(ctx, p.UsernameInput(), username, "Username field")
}

func (p *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return p.Type(ctx, p.PasswordInput(), password, "Password field")
}

// ClickLoginButton clicks submit and pauses for the request to start.
func (p *LoginPage) ClickLoginButton(ctx context.Context) error {
	if err := p.Click(ctx, p.LoginButton(), "Login button"); err != nil {
		return err
	}
	if err := p.Waiter().Pause(ctx, p.Timings().SubmitPause); err != nil {
		return err
	}
	p.Logger().Info("Login button clicked successfully")
	return nil
}

// ToggleRememberMe clicks the checkbox when present and reports
// whether it did.
func (p *LoginPage) ToggleRememberMe(ctx context.Context) bool {
	checkbox := p.Element(RememberMe)
	if !p.IsExisting(ctx, checkbox) {
		return false
	}
	if err := p.Click(ctx, checkbox, "Remember Me checkbox"); err != nil {
		p.Logger().Warn("Remember Me checkbox not found or not clickable")
		return false
	}
	return true
}

// Login runs the full sign-in flow up to the first server reaction.
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	p.Logger().LogStep(logging.StepLog{
		Description: "Performing login with username: " + username,
	})
	if err := p.EnterUsername(ctx, username); err != nil {
		return err
	}
	if err := p.EnterPassword(ctx, password); err != nil {
		return err
	}
	if err := p.AssertFieldsPopulated(ctx, username); err != nil {
		return err
	}
	if err := p.ClickLoginButton(ctx); err != nil {
		return err
	}
	if err := p.AssertLoginProcessInitiated(ctx); err != nil {
		return err
	}
	p.Logger().Info("Login action completed")
	return nil
}

func (p *LoginPage) IsErrorDisplayed(ctx context.Context) bool {
	return p.IsDisplayed(ctx, p.ErrorAlert())
}

// IsLoginButtonEnabled reads the disabled and aria-disabled
// attributes. Any lookup error counts as disabled.
func (p *LoginPage) IsLoginButtonEnabled(ctx context.Context) bool {
	btn := p.LoginButton()
	p.WaitForElement(ctx, btn, 0)

	disabled, err := btn.Attribute(ctx, "disabled")
	if err != nil {
		p.Logger().Error("Failed to check login button enabled state",
			logging.ErrorField(err))
		return false
	}
	aria, err := btn.Attribute(ctx, "aria-disabled")
	if err != nil {
		p.Logger().Error("Failed to check login button enabled state",
			logging.ErrorField(err))
		return false
	}

	enabled := !attrSet(disabled) && aria != "true"
	p.Logger().Info(fmt.Sprintf("Login button enabled state: %t", enabled))
	return enabled
}

// attrSet interprets a boolean HTML attribute as returned over
// WebDriver, where an absent attribute reads as "".
func attrSet(v string) bool {
	return v != "" && v != "false"
}

func (p *LoginPage) HasRememberMeCheckbox(ctx context.Context) bool {
	return p.IsExisting(ctx, p.Element(RememberMe))
}

// ErrorMessage returns the alert text, or "" when none is shown.
func (p *LoginPage) ErrorMessage(ctx context.Context) string {
	el := p.ErrorAlert()
	if !p.IsDisplayed(ctx, el) {
		return ""
	}
	text, err := p.Text(ctx, el)
	if err != nil {
		p.Logger().Error("Failed to get error message", logging.ErrorField(err))
		return ""
	}
	return text
}

func (p *LoginPage) AssertLoginPageLoaded(ctx context.Context) error {
	url, err := p.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if err := p.Checker().URLContains(url, LoginPathMarker,
		"Login page URL verification"); err != nil {
		return err
	}

	present := p.IsExisting(ctx, p.UsernameInput()) &&
		p.IsExisting(ctx, p.PasswordInput())
	if err := p.Checker().True(present, "Login form elements are present"); err != nil {
		return err
	}
	p.Logger().Info("Login page loaded assertion passed")
	return nil
}

func (p *LoginPage) AssertFieldsPopulated(ctx context.Context, expectedUsername string) error {
	username, err := p.UsernameInput().Value(ctx)
	if err != nil {
		return err
	}
	password, err := p.PasswordInput().Value(ctx)
	if err != nil {
		return err
	}

	if err := p.Checker().TextEquals(username, expectedUsername,
		"Username field value"); err != nil {
		return err
	}
	if err := p.Checker().True(len(password) > 0,
		"Password field is populated"); err != nil {
		return err
	}
	p.Logger().Info("Fields populated assertion passed")
	return nil
}

// AssertLoginProcessInitiated waits until the browser leaves the
// login page or an error alert appears.
func (p *LoginPage) AssertLoginProcessInitiated(ctx context.Context) error {
	alert := p.ErrorAlert()
	err := p.Waiter().WaitUntil(ctx,
		wait.Any(
			wait.URLNotContains(p.Driver(), LoginPathMarker),
			alert.IsDisplayed,
		),
		p.Timings().LoginInitiation,
		"Login process did not initiate",
	)
	if err != nil {
		return err
	}
	p.Logger().Info("Login process initiated successfully")
	return nil
}

// AssertErrorDisplayed requires a visible alert. When expected is
// set the shown text is logged for comparison.
func (p *LoginPage) AssertErrorDisplayed(ctx context.Context, expected string) error {
	if err := p.Checker().True(p.IsErrorDisplayed(ctx),
		"Error message is displayed"); err != nil {
		return err
	}
	if expected != "" {
		p.Logger().Info("Error message displayed: "+p.ErrorMessage(ctx),
			logging.StringField("expected", expected))
	}
	p.Logger().Info("Error message assertion passed")
	return nil
}

func (p *LoginPage) AssertLoginButtonEnabled(ctx context.Context) error {
	if err := p.Checker().True(p.IsLoginButtonEnabled(ctx),
		"Login button is enabled"); err != nil {
		return err
	}
	p.Logger().Info("Login button enabled assertion passed")
	return nil
}

// AssertLoginButtonDisabled fails when the button is missing:
// IsLoginButtonEnabled alone would read a missing button as disabled.
func (p *LoginPage) AssertLoginButtonDisabled(ctx context.Context) error {
	if err := p.Checker().Exists(ctx, p.LoginButton(), "Login button"); err != nil {
		return err
	}
	if err := p.Checker().False(p.IsLoginButtonEnabled(ctx),
		"Login button is disabled"); err != nil {
		return err
	}
	p.Logger().Info("Login button disabled assertion passed")
	return nil
}

// WaitForPageToLoad waits for the document and then for the username
// field or the form to exist.
func (p *LoginPage) WaitForPageToLoad(ctx context.Context) error {
	if err := p.Waiter().WaitForPageReady(ctx, 0); err != nil {
		return err
	}

	username, form := p.UsernameInput(), p.Element(LoginForm)
	err := p.Waiter().WaitUntil(ctx,
		wait.Any(username.IsExisting, form.IsExisting),
		0,
		"Login page did not load within timeout",
	)
	if err != nil {
		return err
	}
	p.Logger().Info("Login page loaded successfully")
	return nil
}
