package core

import (
	"net/mail"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#aabbcc", "#AABBCC", true},
		{" AABBCC ", "#AABBCC", true},
		{"#abc", "#AABBCC", true},
		{"f0a", "#FF00AA", true},
		{"#abcd", "", false},
		{"#ggg", "", false},
		{"", "", false},
		{"red", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeHexColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hello World", CleanString("  Hello World\n"))
	assert.Equal(t, "hello", CleanString(" HeLLo ", true))
	assert.Equal(t, "HeLLo", CleanString("HeLLo", false))
}

func TestConfig_FromAddress(t *testing.T) {
	tests := []struct {
		name string
		from string
		want mail.Address
	}{
		{name: "bare", from: "noreply@thinkmate.io", want: mail.Address{Name: "ThinkMate", Address: "noreply@thinkmate.io"}},
		{name: "named", from: "Team <team@thinkmate.io>", want: mail.Address{Name: "Team", Address: "team@thinkmate.io"}},
		{name: "unparsable", from: "localhost", want: mail.Address{Name: "ThinkMate", Address: "localhost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Config{AppName: "ThinkMate", DefaultFromEmail: tt.from}
			assert.Equal(t, tt.want, conf.FromAddress())
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "qa")
	t.Setenv("QA_DEBUG", "false")
	t.Setenv("QA_SERVER_HOST", "127.0.0.1:9000")
	t.Setenv("QA_OPENAI_APIKEY", "sk-test")
	t.Setenv("QA_LAYOUT_PALETTE", "#FF0000 #00FF00")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "QA", conf.Env)
	assert.False(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.Equal(t, "127.0.0.1:9000", conf.Server.Host)
	assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, "sk-test", conf.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", conf.OpenAI.Model)
	assert.Equal(t, 900.0, conf.Layout.Width)
	assert.Equal(t, []string{"#FF0000", "#00FF00"}, conf.Layout.Palette)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
}

func TestNewTestConfig(t *testing.T) {
	conf := NewTestConfig()
	assert.True(t, conf.TestMode)
	assert.Equal(t, "TEST", conf.Env)
	assert.Empty(t, conf.OpenAI.APIKey)
	assert.Equal(t, 400.0, conf.Layout.Height)
	assert.Equal(t, 20.0, conf.Layout.Padding)
}

func TestErrors(t *testing.T) {
	base := errors.New("boom")

	perr := NewProviderError("openai", base)
	assert.Equal(t, "openai: boom", perr.Error())
	assert.True(t, IsProviderError(errors.Wrap(perr, "generating")))
	assert.False(t, IsProviderError(base))

	verr := NewValidationError(base, FieldError{Field: "name", Error: "required"})
	assert.Equal(t, "boom", verr.Error())
	assert.Equal(t, "", ValidationError{}.Error())

	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("stop"), "serving")))
	assert.False(t, IsShutdown(base))
}
