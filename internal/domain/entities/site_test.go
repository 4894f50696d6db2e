//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

func TestNormalizeSiteKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		site     string
		expected string
	}{
		{name: "should collapse a localhost origin", site: "http://localhost:1313", expected: "localhost"},
		{name: "should collapse a bare localhost host", site: "localhost:8080", expected: "localhost"},
		{name: "should collapse a loopback address", site: "127.0.0.1:3000", expected: "localhost"},
		{name: "should collapse a private network address", site: "192.168.1.20:1313", expected: "localhost"},
		{name: "should keep a public origin unchanged", site: "https://www.example.com", expected: "https://www.example.com"},
		{name: "should keep a public host unchanged", site: "www.example.com", expected: "www.example.com"},
		{name: "should keep the unknown marker", site: "unknown", expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			key := entities.NormalizeSiteKey(tt.site)

			// then
			assert.Equal(t, tt.expected, key)
			assert.Equal(t, key, entities.NormalizeSiteKey(key), "normalization must be idempotent")
		})
	}
}

func TestSiteFromHeaders(t *testing.T) {
	t.Parallel()

	t.Run("should prefer the origin", func(t *testing.T) {
		t.Parallel()

		// when
		site := entities.SiteFromHeaders("https://www.example.com", "gateway.example.com")

		// then
		assert.Equal(t, "https://www.example.com", site)
	})

	t.Run("should fall back to the host", func(t *testing.T) {
		t.Parallel()

		// when
		site := entities.SiteFromHeaders("", "gateway.example.com")

		// then
		assert.Equal(t, "gateway.example.com", site)
	})

	t.Run("should use unknown when neither is present", func(t *testing.T) {
		t.Parallel()

		// when
		site := entities.SiteFromHeaders("", "")

		// then
		assert.Equal(t, entities.UnknownSiteKey, site)
	})
}
