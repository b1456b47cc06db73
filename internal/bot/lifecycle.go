package bot

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var errNotConnected = errors.New("bot is not connected to Telegram")

// Start runs the bot in polling mode until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errNotConnected
	}
	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	if _, err := b.client.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.client.GetUpdatesChan(u)

	b.markRunning()
	defer b.markStopped()
	b.logger.Info("Bot started successfully. Waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.logger.Info("Polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				b.logger.Warn("Update handling failed", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

// WebhookPath is where the HTTP server receives updates from Telegram.
const WebhookPath = "/telegram-webhook"

// StartWebhook registers the webhook with Telegram. Telegram echoes secret in
// the X-Telegram-Bot-Api-Secret-Token header of every delivery, and updates
// then arrive through HandleUpdate from the HTTP server.
func (b *Bot) StartWebhook(webhookURL, secret string) error {
	if b.client == nil {
		return errNotConnected
	}
	if secret == "" {
		return errors.New("webhook secret is required")
	}
	b.logger.Info("Setting up webhook", zap.String("webhook_url", webhookURL))

	u, err := url.Parse(webhookURL + WebhookPath)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	// setWebhook through MakeRequest: WebhookConfig has no secret_token field
	params := tgbotapi.Params{
		"url":          u.String(),
		"secret_token": secret,
	}
	params.AddNonZero("max_connections", 40)

	if _, err := b.client.MakeRequest("setWebhook", params); err != nil {
		b.logger.Error("Failed to set webhook", zap.Error(err), zap.String("webhook_url", webhookURL))
		return err
	}

	info, err := b.client.GetWebhookInfo()
	if err != nil {
		b.logger.Warn("Failed to get webhook info", zap.Error(err))
	} else {
		b.logger.Info("Webhook set successfully",
			zap.String("url", info.URL),
			zap.Int("pending_updates", info.PendingUpdateCount),
		)
	}

	b.markRunning()
	b.logger.Info("Bot configured for webhook mode")
	return nil
}

// Stop marks the bot as stopped; used on shutdown in webhook mode
func (b *Bot) Stop() {
	b.markStopped()
}

func (b *Bot) markRunning() {
	if b.status != nil {
		b.status.MarkRunning()
	}
}

func (b *Bot) markStopped() {
	if b.status != nil {
		b.status.MarkStopped()
	}
}
