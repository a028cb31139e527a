package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/dfw-design-build/leadintake/internal/config"
	"github.com/dfw-design-build/leadintake/internal/contact"
	"github.com/dfw-design-build/leadintake/internal/ratelimit"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

func TestBuildRedisClientDisabledWithoutAddr(t *testing.T) {
	client := BuildRedisClient(context.Background(), &appconfig.Config{}, logging.Discard(), true)
	assert.Nil(t, client)
}

func TestBuildRedisClientVerifiesConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RateLimitRedisAddr: mr.Addr()}

	client := BuildRedisClient(context.Background(), cfg, logging.Discard(), true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
}

func TestBuildRedisClientUnreachableReturnsNil(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	client := BuildRedisClient(context.Background(), &appconfig.Config{RateLimitRedisAddr: addr}, logging.Discard(), true)
	assert.Nil(t, client)
}

func TestBuildRateLimiter(t *testing.T) {
	_, isMemory := BuildRateLimiter(nil, logging.Discard()).(*ratelimit.MemoryLimiter)
	assert.True(t, isMemory)

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RateLimitRedisAddr: mr.Addr()}, logging.Discard(), false)
	t.Cleanup(func() { _ = client.Close() })
	_, isRedis := BuildRateLimiter(client, logging.Discard()).(*ratelimit.RedisLimiter)
	assert.True(t, isRedis)
}

func TestBuildLeadAlerter(t *testing.T) {
	assert.Nil(t, BuildLeadAlerter(&appconfig.Config{SendGridAPIKey: "SG.key"}, logging.Discard()))
	assert.Nil(t, BuildLeadAlerter(&appconfig.Config{Env: "production", LeadAlertEmail: "office@example.com"}, logging.Discard()))

	alerter := BuildLeadAlerter(&appconfig.Config{
		SendGridAPIKey:    "SG.key",
		SendGridFromEmail: "website@example.com",
		LeadAlertEmail:    "office@example.com, sales@example.com",
	}, logging.Discard())
	assert.NotNil(t, alerter)
}

func TestBuildLeadAlerterLogsAlertsInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	alerter := BuildLeadAlerter(&appconfig.Config{Env: "development", LeadAlertEmail: "office@example.com"}, logger)
	require.NotNil(t, alerter)

	err := alerter.NotifyNewLead(context.Background(), contact.Lead{
		Name:    "Jane Smith",
		Email:   "jane@example.com",
		City:    "Plano",
		Message: "We want to remodel our kitchen this spring.",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "lead alert logged, not mailed")
	assert.Contains(t, buf.String(), "office@example.com")
}

func TestBuildContactServiceChannels(t *testing.T) {
	tests := []struct {
		name string
		cfg  *appconfig.Config
		want string
	}{
		{"webhook configured", &appconfig.Config{Env: "production", LeadWebhookURL: "https://hooks.example.com/lead"}, contact.ChannelWebhook},
		{"production without webhook", &appconfig.Config{Env: "production"}, contact.ChannelNone},
		{"development without webhook", &appconfig.Config{Env: "development", LeadLogFile: t.TempDir() + "/leads.ndjson"}, contact.ChannelFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := BuildContactService(tt.cfg, nil, logging.Discard())
			assert.Equal(t, tt.want, svc.Channel())
		})
	}
}

func TestParseRecipients(t *testing.T) {
	assert.Nil(t, parseRecipients("  "))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, parseRecipients("a@example.com, ,b@example.com"))
}
