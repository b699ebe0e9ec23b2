package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newsdigest/pkg/config"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("DIGEST_TEST_STRING", "  value  ")
	assert.Equal(t, "value", config.GetEnvString("DIGEST_TEST_STRING", "default"))

	t.Setenv("DIGEST_TEST_STRING", "   ")
	assert.Equal(t, "default", config.GetEnvString("DIGEST_TEST_STRING", "default"))

	assert.Equal(t, "default", config.GetEnvString("DIGEST_TEST_UNSET", "default"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "valid", value: "42", want: 42},
		{name: "negative", value: "-3", want: -3},
		{name: "invalid falls back", value: "forty", want: 30},
		{name: "unset", value: "", want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DIGEST_TEST_INT", tt.value)
			assert.Equal(t, tt.want, config.GetEnvInt("DIGEST_TEST_INT", 30))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("DIGEST_TEST_BOOL", "true")
	assert.True(t, config.GetEnvBool("DIGEST_TEST_BOOL", false))

	t.Setenv("DIGEST_TEST_BOOL", "0")
	assert.False(t, config.GetEnvBool("DIGEST_TEST_BOOL", true))

	t.Setenv("DIGEST_TEST_BOOL", "maybe")
	assert.True(t, config.GetEnvBool("DIGEST_TEST_BOOL", true))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("DIGEST_TEST_FLOAT", "0.5")
	assert.Equal(t, 0.5, config.GetEnvFloat("DIGEST_TEST_FLOAT", 0))

	t.Setenv("DIGEST_TEST_FLOAT", "fast")
	assert.Equal(t, 2.0, config.GetEnvFloat("DIGEST_TEST_FLOAT", 2))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("DIGEST_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, config.GetEnvDuration("DIGEST_TEST_DURATION", time.Second))

	t.Setenv("DIGEST_TEST_DURATION", "90")
	assert.Equal(t, time.Second, config.GetEnvDuration("DIGEST_TEST_DURATION", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	defaults := []string{"https://a.example/rss"}

	t.Setenv("DIGEST_TEST_LIST", " https://b.example/rss , ,https://c.example/rss ")
	assert.Equal(t, []string{"https://b.example/rss", "https://c.example/rss"}, config.GetEnvStringList("DIGEST_TEST_LIST", defaults))

	t.Setenv("DIGEST_TEST_LIST", " , ")
	assert.Equal(t, defaults, config.GetEnvStringList("DIGEST_TEST_LIST", defaults))

	t.Setenv("DIGEST_TEST_LIST", "")
	assert.Equal(t, defaults, config.GetEnvStringList("DIGEST_TEST_LIST", defaults))
}
