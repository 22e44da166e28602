package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"digital.vasic.mobilelogin/pkg/env"
)

// Platform identifies a mobile browser platform.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// ErrUnsupportedPlatform matches every UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// UnsupportedPlatformError reports a platform other than ios or
// android.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf(
		"Unsupported platform: %s. Use 'ios' or 'android'", e.Platform,
	)
}

// Is makes errors.Is(err, ErrUnsupportedPlatform) hold.
func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// ParsePlatform accepts ios or android in any case.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformIOS:
		return PlatformIOS, nil
	case PlatformAndroid:
		return PlatformAndroid, nil
	default:
		return "", &UnsupportedPlatformError{Platform: s}
	}
}

// SupportedPlatforms lists the accepted platform names.
func SupportedPlatforms() []Platform {
	return []Platform{PlatformIOS, PlatformAndroid}
}

// Capabilities is a W3C/Appium desired-capabilities document.
type Capabilities map[string]any

// Keys returns the capability names in sorted order.
func (c Capabilities) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func commonCapabilities() Capabilities {
	return Capabilities{
		"newCommandTimeout": 300,
		"noReset":           false,
		"fullReset":         false,
		"autoWebview":       true,
		"autoAcceptAlerts":  true,
		"autoDismissAlerts": false,
	}
}

func iosCapabilities(loader env.Loader) Capabilities {
	caps := commonCapabilities()
	caps["platformName"] = "iOS"
	caps["automationName"] = "XCUITest"
	caps["browserName"] = loader.GetWithDefault("IOS_BROWSER_NAME", "Safari")
	caps["deviceName"] = loader.GetWithDefault("IOS_DEVICE_NAME", "iPhone 15")
	caps["platformVersion"] = loader.GetWithDefault("IOS_PLATFORM_VERSION", "17.0")
	caps["safariInitialUrl"] = "about:blank"
	caps["safariAllowPopups"] = true
	caps["safariOpenLinksInBackground"] = false
	caps["includeSafariInWebviews"] = true
	caps["webviewConnectTimeout"] = 30000
	return caps
}

func androidCapabilities(loader env.Loader) Capabilities {
	caps := commonCapabilities()
	caps["platformName"] = "Android"
	caps["automationName"] = "UiAutomator2"
	caps["browserName"] = loader.GetWithDefault("ANDROID_BROWSER_NAME", "Chrome")
	caps["deviceName"] = loader.GetWithDefault("ANDROID_DEVICE_NAME", "Pixel 7")
	caps["platformVersion"] = loader.GetWithDefault("ANDROID_PLATFORM_VERSION", "13.0")
	caps["chromedriverAutodownload"] = true
	caps["autoGrantPermissions"] = true
	caps["noSign"] = true
	return caps
}

// ResolveCapabilities returns a fresh capability document for
// platform. Device and browser names may be overridden through the
// IOS_* and ANDROID_* variables.
func ResolveCapabilities(
	platform string,
	loader env.Loader,
) (Capabilities, error) {
	p, err := ParsePlatform(platform)
	if err != nil {
		return nil, err
	}
	if loader == nil {
		loader = env.MapLoader{}
	}
	if p == PlatformAndroid {
		return androidCapabilities(loader), nil
	}
	return iosCapabilities(loader), nil
}
