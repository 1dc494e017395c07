package utils

import (
	"indie-bot/model"

	"go.uber.org/zap"
)

// SendReply sends a plain message to a channel, logging delivery failures.
func SendReply(p model.Platform, logger *zap.Logger, channelID, message string) {
	if err := p.SendMessage(channelID, message); err != nil {
		logger.Warn("failed to send reply", zap.String("channel_id", channelID), zap.Error(err))
	}
}

// SendErrorReply sends an error message to a channel.
func SendErrorReply(p model.Platform, logger *zap.Logger, channelID, message string) {
	SendReply(p, logger, channelID, "❌ "+message)
}
