package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/dfw-design-build/leadintake/internal/config"
	"github.com/dfw-design-build/leadintake/internal/contact"
	"github.com/dfw-design-build/leadintake/internal/notify"
	"github.com/dfw-design-build/leadintake/internal/observability/metrics"
	"github.com/dfw-design-build/leadintake/internal/ratelimit"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || cfg.RateLimitRedisAddr == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RateLimitRedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRateLimiter shares counters through Redis when a client is given and
// keeps them in process memory otherwise.
func BuildRateLimiter(redisClient *redis.Client, logger *logging.Logger) ratelimit.Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient != nil {
		logger.Info("rate limiter using redis")
		return ratelimit.NewRedisLimiter(redisClient, logger)
	}
	logger.Info("rate limiter using process memory")
	return ratelimit.NewMemoryLimiter(ratelimit.WithLogger(logger))
}

// BuildLeadAlerter returns nil when LEAD_ALERT_EMAIL is empty. Without a
// SendGrid key, development logs alerts and production sends none.
func BuildLeadAlerter(cfg *appconfig.Config, logger *logging.Logger) *notify.LeadAlerter {
	if cfg == nil {
		return nil
	}
	recipients := parseRecipients(cfg.LeadAlertEmail)
	if len(recipients) == 0 {
		return nil
	}

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else if !cfg.IsProduction() {
		sender = notify.NewStubEmailSender(logger)
	} else {
		return nil
	}
	return notify.NewLeadAlerter(sender, recipients, logger)
}

// BuildContactService wires the submission pipeline from configuration.
func BuildContactService(cfg *appconfig.Config, m *metrics.LeadMetrics, logger *logging.Logger) *contact.Service {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	opts := []contact.Option{contact.WithMetrics(m)}
	if alerter := BuildLeadAlerter(cfg, logger); alerter != nil {
		opts = append(opts, contact.WithNotifier(alerter))
		logger.Info("lead alerts enabled")
	}

	svc := contact.NewService(contact.Config{
		WebhookURL:   cfg.LeadWebhookURL,
		WebhookToken: cfg.LeadWebhookToken,
		LogFile:      cfg.LeadLogFile,
		Production:   cfg.IsProduction(),
	}, logger, opts...)

	switch svc.Channel() {
	case contact.ChannelNone:
		logger.Warn("no lead webhook configured; submissions will fail in production")
	case contact.ChannelFile:
		path := cfg.LeadLogFile
		if path == "" {
			path = contact.DefaultLogPath()
		}
		logger.Info("leads will be appended to a local file", "path", path)
	}
	return svc
}

func parseRecipients(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
