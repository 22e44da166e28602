// Package fixtures holds the login test data: the valid account,
// the invalid-credential scenarios and the site paths under test.
package fixtures

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"digital.vasic.mobilelogin/pkg/assertion"
	"digital.vasic.mobilelogin/pkg/env"
)

// ErrUnknownCredentialType is returned by Set.Credentials for a kind
// other than valid or invalid.
var ErrUnknownCredentialType = errors.New("unknown credential type")

// Default valid account, overridable via VALID_USERNAME and
// VALID_PASSWORD.
const (
	DefaultUsername = "tester1@simplestream.com"
	DefaultPassword = "TestLogin"
)

// ErrorCategory classifies the rejection an invalid scenario expects.
type ErrorCategory string

const (
	CategoryInvalidCredentials ErrorCategory = "invalid_credentials"
	CategoryUsernameRequired   ErrorCategory = "username_required"
	CategoryPasswordRequired   ErrorCategory = "password_required"
	CategoryInvalidEmail       ErrorCategory = "invalid_email"
	CategoryOther              ErrorCategory = "other"
)

// Credentials is a username/password pair.
type Credentials struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// InvalidScenario is one rejected-login case. Checks are extra
// assertions evaluated against the page state after the attempt;
// targets are the names listed in CheckTargets.
type InvalidScenario struct {
	Scenario      string                 `yaml:"scenario" json:"scenario"`
	Username      string                 `yaml:"username" json:"username"`
	Password      string                 `yaml:"password" json:"password"`
	ExpectedError string                 `yaml:"expected_error" json:"expected_error"`
	Checks        []assertion.Definition `yaml:"checks,omitempty" json:"checks,omitempty"`
}

// Targets available to InvalidScenario.Checks.
const (
	TargetURL                = "url"
	TargetTitle              = "title"
	TargetErrorText          = "error_text"
	TargetLoginButtonEnabled = "login_button_enabled"
)

// CheckTargets lists every valid check target.
var CheckTargets = []string{
	TargetURL, TargetTitle, TargetErrorText, TargetLoginButtonEnabled,
}

// Credentials returns the pair this scenario submits.
func (s InvalidScenario) Credentials() Credentials {
	return Credentials{Username: s.Username, Password: s.Password}
}

// Category maps ExpectedError onto an ErrorCategory.
func (s InvalidScenario) Category() ErrorCategory {
	switch strings.ToLower(s.ExpectedError) {
	case "invalid credentials":
		return CategoryInvalidCredentials
	case "username is required":
		return CategoryUsernameRequired
	case "password is required":
		return CategoryPasswordRequired
	case "invalid email format":
		return CategoryInvalidEmail
	default:
		return CategoryOther
	}
}

// Slug returns the scenario name lower-cased with whitespace runs
// replaced by "-".
func (s InvalidScenario) Slug() string {
	return Slug(s.Scenario)
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lower-cases name and replaces whitespace runs with "-".
func Slug(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(name, "-"))
}

// URLs holds the site paths the suite visits.
type URLs struct {
	BaseURL     string `yaml:"base_url" json:"base_url"`
	LoginPage   string `yaml:"login_page" json:"login_page"`
	HomePage    string `yaml:"home_page" json:"home_page"`
	AccountPage string `yaml:"account_page" json:"account_page"`
}

// Login returns the absolute login page URL.
func (u URLs) Login() string { return u.join(u.LoginPage) }

// Home returns the absolute home page URL.
func (u URLs) Home() string { return u.join(u.HomePage) }

// Account returns the absolute account page URL.
func (u URLs) Account() string { return u.join(u.AccountPage) }

func (u URLs) join(path string) string {
	return strings.TrimRight(u.BaseURL, "/") + path
}

// Set is the complete fixture data for a run.
type Set struct {
	Valid   Credentials       `yaml:"valid" json:"valid"`
	Invalid []InvalidScenario `yaml:"invalid" json:"invalid"`
	URLs    URLs              `yaml:"urls" json:"urls"`
}

// Default builds the built-in fixture set, reading the valid account
// and base URL from loader when set.
func Default(loader env.Loader) *Set {
	if loader == nil {
		loader = env.MapLoader{}
	}
	return &Set{
		Valid: Credentials{
			Username: loader.GetWithDefault("VALID_USERNAME", DefaultUsername),
			Password: loader.GetWithDefault("VALID_PASSWORD", DefaultPassword),
		},
		Invalid: defaultInvalid(),
		URLs: URLs{
			BaseURL:     loader.GetWithDefault("BASE_URL", "https://www.wwgoa.com"),
			LoginPage:   "/login",
			HomePage:    "/",
			AccountPage: "/my-account",
		},
	}
}

func defaultInvalid() []InvalidScenario {
	return []InvalidScenario{
		{
			Scenario:      "Invalid username and password",
			Username:      "invalid@example.com",
			Password:      "WrongPassword123",
			ExpectedError: "Invalid credentials",
		},
		{
			Scenario:      "Empty username",
			Username:      "",
			Password:      DefaultPassword,
			ExpectedError: "Username is required",
		},
		{
			Scenario:      "Empty password",
			Username:      DefaultUsername,
			Password:      "",
			ExpectedError: "Password is required",
		},
		{
			Scenario:      "Empty username and password",
			Username:      "",
			Password:      "",
			ExpectedError: "Username is required",
		},
		{
			Scenario:      "Invalid email format",
			Username:      "notanemail",
			Password:      DefaultPassword,
			ExpectedError: "Invalid email format",
		},
		{
			Scenario:      "SQL Injection attempt",
			Username:      "admin' OR '1'='1",
			Password:      "admin' OR '1'='1",
			ExpectedError: "Invalid credentials",
		},
		{
			Scenario:      "XSS attempt",
			Username:      `<script>alert("XSS")</script>`,
			Password:      DefaultPassword,
			ExpectedError: "Invalid credentials",
		},
	}
}

// Credentials returns the pairs for kind: one pair for "valid", every
// invalid scenario's pair for "invalid". The kind is case-insensitive.
func (s *Set) Credentials(kind string) ([]Credentials, error) {
	switch strings.ToLower(kind) {
	case "valid":
		return []Credentials{s.Valid}, nil
	case "invalid":
		out := make([]Credentials, len(s.Invalid))
		for i, sc := range s.Invalid {
			out[i] = sc.Credentials()
		}
		return out, nil
	default:
		return nil, fmt.Errorf(
			"%w: Unknown credential type: %s",
			ErrUnknownCredentialType, kind,
		)
	}
}

// RandomInvalid picks one invalid scenario using r. It returns false
// when the set has none.
func (s *Set) RandomInvalid(r *rand.Rand) (InvalidScenario, bool) {
	if len(s.Invalid) == 0 {
		return InvalidScenario{}, false
	}
	return s.Invalid[r.Intn(len(s.Invalid))], true
}

// Secrets returns every password in the set, for log redaction.
func (s *Set) Secrets() []string {
	secrets := []string{s.Valid.Password}
	for _, sc := range s.Invalid {
		secrets = append(secrets, sc.Password)
	}
	return secrets
}

// file is the on-disk override layout; absent sections keep the
// base values.
type file struct {
	Valid   *Credentials      `yaml:"valid"`
	Invalid []InvalidScenario `yaml:"invalid"`
	URLs    *URLs             `yaml:"urls"`
}

// LoadFile overlays the YAML fixtures at path onto base. A present
// invalid list replaces the base list entirely.
func LoadFile(path string, base *Set) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return Parse(data, base)
}

// Parse overlays YAML fixture data onto base.
func Parse(data []byte, base *Set) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	out := &Set{}
	if base != nil {
		*out = *base
		out.Invalid = append([]InvalidScenario(nil), base.Invalid...)
	}
	if f.Valid != nil {
		out.Valid = *f.Valid
	}
	if f.Invalid != nil {
		for i, sc := range f.Invalid {
			if strings.TrimSpace(sc.Scenario) == "" {
				return nil, fmt.Errorf(
					"parse fixtures: invalid[%d] has no scenario name", i,
				)
			}
			if err := validateChecks(sc.Checks); err != nil {
				return nil, fmt.Errorf(
					"parse fixtures: invalid[%d] %q: %w", i, sc.Scenario, err,
				)
			}
		}
		out.Invalid = f.Invalid
	}
	if f.URLs != nil {
		if f.URLs.BaseURL != "" {
			out.URLs.BaseURL = f.URLs.BaseURL
		}
		if f.URLs.LoginPage != "" {
			out.URLs.LoginPage = f.URLs.LoginPage
		}
		if f.URLs.HomePage != "" {
			out.URLs.HomePage = f.URLs.HomePage
		}
		if f.URLs.AccountPage != "" {
			out.URLs.AccountPage = f.URLs.AccountPage
		}
	}
	return out, nil
}

func validateChecks(defs []assertion.Definition) error {
	for j, d := range defs {
		if d.Type == "" {
			return fmt.Errorf("checks[%d] has no type", j)
		}
		if !slices.Contains(CheckTargets, d.Target) {
			return fmt.Errorf("checks[%d] has unknown target %q", j, d.Target)
		}
	}
	return nil
}
