package utils

import (
	"time"

	"indie-bot/model"

	"github.com/bwmarrin/discordgo"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

// sendLog posts an audit embed to the log channel. An empty channel ID disables it.
func sendLog(p model.Platform, channelID string, level LogLevel, module, operation, extraInfo string) error {
	if channelID == "" {
		return nil
	}
	if extraInfo == "" {
		extraInfo = "-"
	}

	embed := &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: extraInfo},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return p.SendEmbed(channelID, embed)
}

func LogInfo(p model.Platform, channelID, module, operation, extraInfo string) error {
	return sendLog(p, channelID, Info, module, operation, extraInfo)
}

func LogWarn(p model.Platform, channelID, module, operation, extraInfo string) error {
	return sendLog(p, channelID, Warn, module, operation, extraInfo)
}

func LogError(p model.Platform, channelID, module, operation, extraInfo string) error {
	return sendLog(p, channelID, Error, module, operation, extraInfo)
}
