package handlers

import (
	"fmt"
	"runtime"
	"time"

	"indie-bot/commands"
	"indie-bot/utils"
	"indie-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func systemInfoCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "sysinfo",
		Usage:     "sysinfo",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			return ctx.Platform.SendEmbed(ctx.ChannelID, d.systemInfoEmbed())
		},
	}
}

func (d *Deps) systemInfoEmbed() *discordgo.MessageEmbed {
	cpuCount, _ := cpu.Counts(true)

	cpuUsage := "n/a"
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}

	memUsage := "n/a"
	if vm, err := mem.VirtualMemory(); err == nil {
		memUsage = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	osVersion, kernel := "n/a", "n/a"
	if hostInfo, err := host.Info(); err == nil {
		osVersion = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	dbSize := "n/a"
	if size, err := database.Size(d.DBPath); err == nil {
		dbSize = fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
	}

	cooldowns := 0
	if d.Gate != nil {
		cooldowns = d.Gate.Len()
	}

	return &discordgo.MessageEmbed{
		Title: "System Info",
		Color: utils.ColorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: osVersion, Inline: true},
			{Name: "🔧 Kernel", Value: kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: cpuUsage, Inline: true},
			{Name: "🧠 Memory", Value: memUsage, Inline: true},
			{Name: "🗃️ Rank database", Value: dbSize, Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "⏳ Cooldowns tracked", Value: fmt.Sprintf("%d", cooldowns), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor · %s", time.Now().Format("15:04")),
		},
	}
}
