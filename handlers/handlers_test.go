package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"indie-bot/commands"
	"indie-bot/model"
	"indie-bot/rank"
	"indie-bot/utils/database"
	"indie-bot/utils/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	guildID      = "100000000000000001"
	channelID    = "200000000000000001"
	logChannelID = "200000000000000009"
	adminID      = "300000000000000001"
	aliceID      = "300000000000000002"
	bobID        = "300000000000000003"
	roleID       = "400000000000000001"
)

type harness struct {
	fake  *platformtest.Fake
	store *database.XPStore
	deps  *Deps
	mh    *MessageHandler
	now   time.Time
}

// newHarness builds the full message path over an in-memory platform and a
// temporary database. Every award is exactly 10 XP, enough for level 1.
func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := platformtest.New(guildID)
	fake.Admins[adminID] = true
	fake.AddMember(adminID, "admin")
	fake.AddMember(aliceID, "alice")
	fake.AddChannel(channelID, "general")

	dbPath := filepath.Join(t.TempDir(), "ranks.db")
	db, err := database.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := database.NewXPStore(db, time.Second)

	gate, err := rank.NewCooldownGate(100)
	require.NoError(t, err)
	logger := zap.NewNop()

	d := &Deps{
		Platform:     fake,
		Store:        store,
		Engine:       rank.NewEngine(store, gate, rank.EngineConfig{MinXP: 10, MaxXP: 10, Cooldown: time.Minute}, logger),
		RoleSync:     rank.NewRoleSync(store, fake, logger),
		Gate:         gate,
		Logger:       logger,
		LogChannelID: logChannelID,
		DBPath:       dbPath,
	}
	router := commands.NewRouter([]string{"in.", "!"}, fake, logger)
	router.Register(CommandTable(d)...)

	h := &harness{fake: fake, store: store, deps: d, now: time.Unix(1_700_000_000, 0)}
	h.mh = NewMessageHandler(d, router)
	h.mh.now = func() time.Time { return h.now }
	return h
}

func (h *harness) send(authorID, username, content string) {
	h.mh.Handle(context.Background(), &discordgo.Message{
		ID:        "1",
		GuildID:   guildID,
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: username},
	})
}

func (h *harness) xp(t *testing.T, userID string) int64 {
	t.Helper()
	xp, err := h.store.GetXP(context.Background(), guildID, userID)
	require.NoError(t, err)
	return xp
}

func (h *harness) auditCount() int {
	n := 0
	for _, m := range h.fake.Messages {
		if m.ChannelID == logChannelID && m.Embed != nil {
			n++
		}
	}
	return n
}

func TestIsEligible(t *testing.T) {
	isCommand := func(s string) bool { return len(s) > 0 && s[0] == '!' }
	human := &discordgo.User{ID: aliceID}

	assert.True(t, isEligible(&discordgo.Message{GuildID: guildID, Author: human, Content: "hi"}, isCommand))
	assert.False(t, isEligible(&discordgo.Message{GuildID: guildID, Author: human, Content: "!rank"}, isCommand))
	assert.False(t, isEligible(&discordgo.Message{Author: human, Content: "hi"}, isCommand))
	assert.False(t, isEligible(&discordgo.Message{GuildID: guildID, Author: &discordgo.User{ID: "1", Bot: true}, Content: "hi"}, isCommand))
	assert.False(t, isEligible(&discordgo.Message{GuildID: guildID, Content: "hi"}, isCommand))
}

func TestFirstMessageLevelsUpAndGrantsRole(t *testing.T) {
	h := newHarness(t)
	h.fake.AddRole(roleID, "Newcomer")
	require.NoError(t, h.store.SetLevelRole(context.Background(), guildID, 1, roleID))

	h.send(aliceID, "alice", "hello")

	assert.Equal(t, int64(10), h.xp(t, aliceID))
	assert.Contains(t, h.fake.LastMessage(), "<@"+aliceID+"> reached **Level 1**!")
	assert.True(t, h.fake.HasRole(aliceID, roleID))
}

func TestCooldownLimitsAwards(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "alice", "one")
	h.now = h.now.Add(30 * time.Second)
	h.send(aliceID, "alice", "two")
	assert.Equal(t, int64(10), h.xp(t, aliceID))

	h.now = h.now.Add(31 * time.Second)
	h.send(aliceID, "alice", "three")
	assert.Equal(t, int64(20), h.xp(t, aliceID))
}

func TestLevelUpWithoutMappingSendsOnlyAnnouncement(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "alice", "hello")

	assert.Equal(t, 1, h.fake.MessageCount())
	assert.Zero(t, h.fake.CallCount("AddMemberRole"))
}

func TestCommandsAndBotsEarnNoXP(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "alice", "!rank stats")
	h.send(aliceID, "alice", "in.rank")
	assert.Zero(t, h.xp(t, aliceID))
	assert.Zero(t, h.deps.Gate.Len())

	h.mh.Handle(context.Background(), &discordgo.Message{
		GuildID: guildID, ChannelID: channelID, Content: "beep",
		Author: &discordgo.User{ID: bobID, Bot: true},
	})
	assert.Zero(t, h.xp(t, bobID))
}

func TestXPFailureIsSilent(t *testing.T) {
	h := newHarness(t)
	h.fake.Fail["SendMessage"] = assert.AnError

	require.NotPanics(t, func() { h.send(aliceID, "alice", "hello") })
	assert.Equal(t, int64(10), h.xp(t, aliceID))
}

func TestRankStats(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.AddXP(context.Background(), guildID, aliceID, 60)
	require.NoError(t, err)

	h.send(aliceID, "alice", "!rank stats")
	assert.Equal(t, "alice - XP: `60`, Level: `2`, Next milestone: `290` XP", h.fake.LastMessage())

	h.send(adminID, "admin", "!rank stats <@"+aliceID+">")
	assert.Equal(t, "alice - XP: `60`, Level: `2`, Next milestone: `290` XP", h.fake.LastMessage())

	h.send(adminID, "admin", "!rank stats")
	assert.Equal(t, "admin - XP: `0`, Level: `0`, Next milestone: `10` XP", h.fake.LastMessage())

	h.send(adminID, "admin", "!rank stats <@"+bobID+">")
	assert.Equal(t, "❌ Member not found.", h.fake.LastMessage())
}

func TestRankStatsMaxLevel(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.AddXP(context.Background(), guildID, aliceID, 200000)
	require.NoError(t, err)

	h.send(aliceID, "alice", "!rank stats")
	assert.Equal(t, "alice - XP: `200000`, Level: `100`, Max level reached", h.fake.LastMessage())
}

func TestRankLeaderboard(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "alice", "!rank leaderboard")
	assert.Equal(t, "No XP data yet.", h.fake.LastMessage())

	ctx := context.Background()
	_, err := h.store.AddXP(ctx, guildID, aliceID, 30)
	require.NoError(t, err)
	_, err = h.store.AddXP(ctx, guildID, bobID, 90)
	require.NoError(t, err)

	h.send(aliceID, "alice", "!rank leaderboard")
	assert.Equal(t,
		"**1. User "+bobID+"** - XP `90`, Level `2`\n**2. alice** - XP `30`, Level `1`",
		h.fake.LastMessage())

	h.send(aliceID, "alice", "!rank leaderboard 1")
	assert.Equal(t, "**1. User "+bobID+"** - XP `90`, Level `2`", h.fake.LastMessage())

	h.send(aliceID, "alice", "!rank leaderboard zero")
	assert.Equal(t, "❌ Usage: `!rank leaderboard [limit]`", h.fake.LastMessage())
}

func TestRankRoleMappings(t *testing.T) {
	h := newHarness(t)
	h.fake.AddRole(roleID, "Regular")

	h.send(aliceID, "alice", "!rank setrole 5 Regular")
	assert.Contains(t, h.fake.LastMessage(), "administrator")

	h.send(adminID, "admin", "!rank setrole 3 Regular")
	assert.Contains(t, h.fake.LastMessage(), "not a reachable level")

	h.send(adminID, "admin", "!rank setrole 5 Nope")
	assert.Equal(t, "❌ Role not found.", h.fake.LastMessage())

	h.send(adminID, "admin", "!rank setrole 5 <@&"+roleID+">")
	assert.Equal(t, "Level `5` now gives role **Regular**", h.fake.LastMessage())

	h.send(aliceID, "alice", "!rank roles")
	assert.Equal(t, "Level `5` -> <@&"+roleID+">", h.fake.LastMessage())

	h.send(adminID, "admin", "!rank removerole 5")
	assert.Equal(t, "Removed level `5` role mapping.", h.fake.LastMessage())
	assert.Equal(t, 2, h.auditCount())

	h.send(adminID, "admin", "!rank removerole 5")
	assert.Equal(t, "❌ Role mapping for level `5` not found.", h.fake.LastMessage())

	h.send(aliceID, "alice", "!rank roles")
	assert.Equal(t, "No level roles configured.", h.fake.LastMessage())
}

func TestRankAddXPAndReset(t *testing.T) {
	h := newHarness(t)
	h.fake.AddRole(roleID, "Regular")
	require.NoError(t, h.store.SetLevelRole(context.Background(), guildID, 5, roleID))

	h.send(adminID, "admin", "!rank addxp <@"+aliceID+"> 300")
	assert.Equal(t, int64(300), h.xp(t, aliceID))
	assert.Contains(t, h.fake.LastMessage(), "reached **Level 5**")
	assert.True(t, h.fake.HasRole(aliceID, roleID))

	h.send(adminID, "admin", "!rank addxp <@"+aliceID+"> -5")
	assert.Equal(t, "❌ Usage: `!rank addxp <member> <amount>`", h.fake.LastMessage())

	for _, amount := range []string{"1000001", "9223372036854775000", "99999999999999999999"} {
		h.send(adminID, "admin", "!rank addxp <@"+aliceID+"> "+amount)
		assert.Equal(t, "❌ Usage: `!rank addxp <member> <amount>`", h.fake.LastMessage(), amount)
	}
	assert.Equal(t, int64(300), h.xp(t, aliceID))

	h.send(aliceID, "alice", "!rank leaderboard")
	assert.Equal(t, "**1. alice** - XP `300`, Level `5`", h.fake.LastMessage())

	h.send(adminID, "admin", "!rank reset <@"+aliceID+">")
	assert.Equal(t, "Reset XP for alice.", h.fake.LastMessage())
	assert.Zero(t, h.xp(t, aliceID))
	assert.Equal(t, 2, h.auditCount())
}

func TestGiveAndRemoveRole(t *testing.T) {
	h := newHarness(t)
	h.fake.AddRole(roleID, "Helpers")

	h.send(adminID, "admin", "!giverole <@"+aliceID+"> Helpers")
	assert.Equal(t, "Added **Helpers** to alice.", h.fake.LastMessage())
	assert.True(t, h.fake.HasRole(aliceID, roleID))

	h.send(adminID, "admin", "!removerole "+aliceID+" <@&"+roleID+">")
	assert.Equal(t, "Removed **Helpers** from alice.", h.fake.LastMessage())
	assert.False(t, h.fake.HasRole(aliceID, roleID))
	assert.Equal(t, 2, h.auditCount())

	h.send(adminID, "admin", "!giverole <@"+aliceID+">")
	assert.Equal(t, "❌ Usage: `!giverole <member> <role>`", h.fake.LastMessage())
}

func TestRoleCreateDelete(t *testing.T) {
	h := newHarness(t)

	h.send(adminID, "admin", "!role create Night Owls")
	assert.Equal(t, "Created role **Night Owls**.", h.fake.LastMessage())

	h.send(adminID, "admin", "!role delete Night Owls")
	assert.Equal(t, "Deleted role **Night Owls**.", h.fake.LastMessage())
	assert.Empty(t, h.fake.RoleList)
	assert.Equal(t, 2, h.auditCount())

	h.send(aliceID, "alice", "!role create Sneaky")
	assert.Contains(t, h.fake.LastMessage(), "administrator")
	assert.Zero(t, h.fake.CallCount("CreateRole"))
}

func TestChannelCreateDelete(t *testing.T) {
	h := newHarness(t)

	h.send(adminID, "admin", "!channel create off-topic")
	assert.Equal(t, "Created channel **#off-topic**.", h.fake.LastMessage())

	h.send(adminID, "admin", "!channel delete #off-topic")
	assert.Equal(t, "Deleted channel **#off-topic**.", h.fake.LastMessage())

	before := h.fake.CallCount("SendMessage")
	h.send(adminID, "admin", "!channel delete <#"+channelID+">")
	assert.Equal(t, before, h.fake.CallCount("SendMessage"))
	assert.Equal(t, 2, h.fake.CallCount("DeleteChannel"))
	assert.Equal(t, 3, h.auditCount())
}

func TestLockUnlock(t *testing.T) {
	h := newHarness(t)

	h.send(adminID, "admin", "!lock")
	assert.Equal(t, "Locked **#general**.", h.fake.LastMessage())
	assert.False(t, h.fake.Overwrites[channelID])

	h.send(adminID, "admin", "!unlock #general")
	assert.Equal(t, "Unlocked **#general**.", h.fake.LastMessage())
	assert.True(t, h.fake.Overwrites[channelID])
	assert.Equal(t, 2, h.auditCount())

	h.send(adminID, "admin", "!lock #missing")
	assert.Equal(t, "❌ Channel not found.", h.fake.LastMessage())
}

func TestKickAndBan(t *testing.T) {
	h := newHarness(t)
	h.fake.AddMember(bobID, "bob")

	h.send(adminID, "admin", "!kick <@"+aliceID+"> spamming links")
	assert.Equal(t, "Kicked alice.", h.fake.LastMessage())
	assert.Equal(t, []string{guildID, aliceID, "spamming links"}, h.fake.Calls[len(h.fake.Calls)-3].Args)

	h.send(adminID, "admin", "!ban <@"+bobID+">")
	assert.Equal(t, "Banned bob.", h.fake.LastMessage())
	require.Len(t, h.fake.BanList, 1)
	assert.Equal(t, "No reason", h.fake.BanList[0].Reason)

	h.send(aliceID, "alice", "!ban <@"+adminID+">")
	assert.Equal(t, 1, h.fake.CallCount("Ban"))
	assert.Len(t, h.fake.BanList, 1)
}

func TestKickPermissionDenied(t *testing.T) {
	h := newHarness(t)
	h.fake.Fail["Kick"] = fmt.Errorf("kick: %w", model.ErrPermissionDenied)

	h.send(adminID, "admin", "!kick <@"+aliceID+">")
	assert.Equal(t, "❌ I don't have permission to do that.", h.fake.LastMessage())
	assert.Zero(t, h.auditCount())
}

func TestUnban(t *testing.T) {
	h := newHarness(t)
	h.fake.BanList = []*discordgo.GuildBan{
		{User: &discordgo.User{ID: bobID, Username: "bob", Discriminator: "0"}},
	}

	h.send(adminID, "admin", "!unban carol")
	assert.Equal(t, "❌ User not found in ban list.", h.fake.LastMessage())

	h.send(adminID, "admin", "!unban bob#0")
	assert.Equal(t, "Unbanned bob.", h.fake.LastMessage())
	assert.Empty(t, h.fake.BanList)

	h.send(adminID, "admin", "!unban")
	assert.Equal(t, "❌ Usage: `!unban <username#discriminator>`", h.fake.LastMessage())
}

func TestParseBanTag(t *testing.T) {
	tag, ok := parseBanTag("bob#1234")
	require.True(t, ok)
	assert.Equal(t, banTag{name: "bob", discriminator: "1234"}, tag)

	tag, ok = parseBanTag("bob")
	require.True(t, ok)
	assert.True(t, tag.matches(&discordgo.User{Username: "bob"}))
	assert.False(t, tag.matches(nil))

	tag, ok = parseBanTag(bobID)
	require.True(t, ok)
	assert.True(t, tag.matches(&discordgo.User{ID: bobID, Username: "someone"}))

	for _, bad := range []string{"", "#1234", "bob#", "bob#12#34", "bob smith"} {
		_, ok := parseBanTag(bad)
		assert.False(t, ok, bad)
	}
}

func TestSystemInfo(t *testing.T) {
	h := newHarness(t)

	h.send(adminID, "admin", "!sysinfo")
	require.Equal(t, 1, h.fake.CallCount("SendEmbed"))
	last := h.fake.Messages[len(h.fake.Messages)-1]
	require.NotNil(t, last.Embed)
	assert.Equal(t, "System Info", last.Embed.Title)
	assert.Equal(t, channelID, last.ChannelID)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Nick", displayName(&discordgo.Member{Nick: "Nick", User: &discordgo.User{Username: "u"}}))
	assert.Equal(t, "Global", displayName(&discordgo.Member{User: &discordgo.User{Username: "u", GlobalName: "Global"}}))
	assert.Equal(t, "u", displayName(&discordgo.Member{User: &discordgo.User{Username: "u"}}))
	assert.Equal(t, "", displayName(&discordgo.Member{}))
}
