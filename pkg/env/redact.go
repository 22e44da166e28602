package env

import (
	"net/url"
	"strings"
)

// RedactSecret masks a secret, showing only the first 4 and last 4
// characters of long values.
func RedactSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) +
		secret[len(secret)-4:]
}

// RedactURL masks the password embedded in a URL, such as a hosted
// Appium endpoint with basic-auth credentials.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			u.User = url.UserPassword(
				u.User.Username(), RedactSecret(password),
			)
		}
	}
	return u.String()
}

// IsSensitiveKey reports whether a variable name looks like it
// holds a credential.
func IsSensitiveKey(key string) bool {
	k := strings.ToUpper(key)
	for _, marker := range []string{"PASSWORD", "SECRET", "TOKEN", "KEY"} {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}
