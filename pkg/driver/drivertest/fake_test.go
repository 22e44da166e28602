package drivertest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/driver/drivertest"
)

func TestDriver_Update(t *testing.T) {
	fake := drivertest.New()
	sel := driver.CSS("button")
	assert.False(t, fake.Update(sel, func(*drivertest.Element) {}))

	fake.Put(sel, &drivertest.Element{Exists: true})
	done := make(chan struct{})
	go func() {
		defer close(done)
		fake.Update(sel, func(e *drivertest.Element) { e.Displayed = true })
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update did not return")
	}

	displayed, err := fake.Find(sel).IsDisplayed(context.Background())
	require.NoError(t, err)
	assert.True(t, displayed)
}
