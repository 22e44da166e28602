package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/env"
)

func TestResolveCapabilities_IOS(t *testing.T) {
	caps, err := ResolveCapabilities("iOS", env.MapLoader{})
	require.NoError(t, err)

	assert.Equal(t, "iOS", caps["platformName"])
	assert.Equal(t, "XCUITest", caps["automationName"])
	assert.Equal(t, "Safari", caps["browserName"])
	assert.Equal(t, "iPhone 15", caps["deviceName"])
	assert.Equal(t, "17.0", caps["platformVersion"])
	assert.Equal(t, "about:blank", caps["safariInitialUrl"])
	assert.Equal(t, 30000, caps["webviewConnectTimeout"])
	assert.Equal(t, 300, caps["newCommandTimeout"])
	assert.Equal(t, true, caps["autoAcceptAlerts"])
	assert.Equal(t, false, caps["autoDismissAlerts"])
	assert.NotContains(t, caps, "noSign")
}

func TestResolveCapabilities_Android(t *testing.T) {
	caps, err := ResolveCapabilities("android", env.MapLoader{
		"ANDROID_DEVICE_NAME": "Galaxy S23",
	})
	require.NoError(t, err)

	assert.Equal(t, "Android", caps["platformName"])
	assert.Equal(t, "UiAutomator2", caps["automationName"])
	assert.Equal(t, "Chrome", caps["browserName"])
	assert.Equal(t, "Galaxy S23", caps["deviceName"])
	assert.Equal(t, "13.0", caps["platformVersion"])
	assert.Equal(t, true, caps["noSign"])
	assert.NotContains(t, caps, "safariInitialUrl")
}

func TestResolveCapabilities_Unsupported(t *testing.T) {
	for _, p := range []string{"windows", "", "ios2"} {
		t.Run(p, func(t *testing.T) {
			caps, err := ResolveCapabilities(p, nil)
			require.Error(t, err)
			assert.Nil(t, caps)
			assert.True(t, errors.Is(err, ErrUnsupportedPlatform))

			var upe *UnsupportedPlatformError
			require.True(t, errors.As(err, &upe))
			assert.Equal(t, p, upe.Platform)
			assert.Equal(t,
				"Unsupported platform: "+p+". Use 'ios' or 'android'",
				err.Error())
		})
	}
}

func TestResolveCapabilities_FreshCopies(t *testing.T) {
	a, err := ResolveCapabilities("ios", nil)
	require.NoError(t, err)
	a["deviceName"] = "mutated"

	b, err := ResolveCapabilities("ios", nil)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15", b["deviceName"])
}

func TestCapabilities_Keys(t *testing.T) {
	caps := Capabilities{"b": 1, "a": 2}
	assert.Equal(t, []string{"a", "b"}, caps.Keys())
	assert.Len(t, SupportedPlatforms(), 2)
}
