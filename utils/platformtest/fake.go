// Package platformtest provides an in-memory model.Platform for tests.
package platformtest

import (
	"fmt"
	"strconv"
	"sync"

	"indie-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Call is one recorded platform call.
type Call struct {
	Method string
	Args   []string
}

// Sent is a message or embed sent to a channel.
type Sent struct {
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
}

// Fake is a single-guild platform kept in memory.
type Fake struct {
	mu sync.Mutex

	GuildID  string
	RoleList []*discordgo.Role
	Chans    []*discordgo.Channel
	Members  map[string]*discordgo.Member
	BanList  []*discordgo.GuildBan
	Admins   map[string]bool

	// Overwrites records channelID -> allowed for @everyone send-messages.
	Overwrites map[string]bool

	// Fail makes the named method return the given error.
	Fail map[string]error

	Calls    []Call
	Messages []Sent
	nextID   int
}

// New creates an empty fake for guildID.
func New(guildID string) *Fake {
	return &Fake{
		GuildID:    guildID,
		Members:    make(map[string]*discordgo.Member),
		Admins:     make(map[string]bool),
		Overwrites: make(map[string]bool),
		Fail:       make(map[string]error),
		nextID:     900,
	}
}

var _ model.Platform = (*Fake)(nil)

func (f *Fake) record(method string, args ...string) error {
	f.Calls = append(f.Calls, Call{Method: method, Args: args})
	return f.Fail[method]
}

func (f *Fake) newID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

// AddMember registers a member with the given roles.
func (f *Fake) AddMember(userID, username string, roles ...string) *discordgo.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &discordgo.Member{
		GuildID: f.GuildID,
		User:    &discordgo.User{ID: userID, Username: username},
		Roles:   roles,
	}
	f.Members[userID] = m
	return m
}

// AddRole registers a guild role.
func (f *Fake) AddRole(roleID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoleList = append(f.RoleList, &discordgo.Role{ID: roleID, Name: name})
}

// AddChannel registers a text channel.
func (f *Fake) AddChannel(channelID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Chans = append(f.Chans, &discordgo.Channel{ID: channelID, GuildID: f.GuildID, Name: name, Type: discordgo.ChannelTypeGuildText})
}

// CallCount returns how many calls of method were made.
func (f *Fake) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of recorded calls.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastMessage returns the content of the most recent text message.
func (f *Fake) LastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Messages) - 1; i >= 0; i-- {
		if f.Messages[i].Embed == nil {
			return f.Messages[i].Content
		}
	}
	return ""
}

// MessageCount returns the number of messages and embeds sent.
func (f *Fake) MessageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Messages)
}

// HasRole reports whether userID holds roleID.
func (f *Fake) HasRole(userID, roleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return false
	}
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

func (f *Fake) SendMessage(channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SendMessage", channelID, content); err != nil {
		return err
	}
	f.Messages = append(f.Messages, Sent{ChannelID: channelID, Content: content})
	return nil
}

func (f *Fake) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SendEmbed", channelID, embed.Title); err != nil {
		return err
	}
	f.Messages = append(f.Messages, Sent{ChannelID: channelID, Embed: embed})
	return nil
}

func (f *Fake) Roles(guildID string) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Roles", guildID); err != nil {
		return nil, err
	}
	return append([]*discordgo.Role(nil), f.RoleList...), nil
}

func (f *Fake) CreateRole(guildID, name string) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateRole", guildID, name); err != nil {
		return nil, err
	}
	role := &discordgo.Role{ID: f.newID(), Name: name}
	f.RoleList = append(f.RoleList, role)
	return role, nil
}

func (f *Fake) DeleteRole(guildID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteRole", guildID, roleID); err != nil {
		return err
	}
	for i, r := range f.RoleList {
		if r.ID == roleID {
			f.RoleList = append(f.RoleList[:i], f.RoleList[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("role %s: %w", roleID, model.ErrNotFound)
}

func (f *Fake) AddMemberRole(guildID, userID, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddMemberRole", guildID, userID, roleID, reason); err != nil {
		return err
	}
	m, ok := f.Members[userID]
	if !ok {
		return fmt.Errorf("member %s: %w", userID, model.ErrNotFound)
	}
	for _, r := range m.Roles {
		if r == roleID {
			return nil
		}
	}
	m.Roles = append(m.Roles, roleID)
	return nil
}

func (f *Fake) RemoveMemberRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveMemberRole", guildID, userID, roleID); err != nil {
		return err
	}
	m, ok := f.Members[userID]
	if !ok {
		return fmt.Errorf("member %s: %w", userID, model.ErrNotFound)
	}
	for i, r := range m.Roles {
		if r == roleID {
			m.Roles = append(m.Roles[:i], m.Roles[i+1:]...)
			break
		}
	}
	return nil
}

func (f *Fake) Channels(guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Channels", guildID); err != nil {
		return nil, err
	}
	return append([]*discordgo.Channel(nil), f.Chans...), nil
}

func (f *Fake) CreateTextChannel(guildID, name string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTextChannel", guildID, name); err != nil {
		return nil, err
	}
	ch := &discordgo.Channel{ID: f.newID(), GuildID: guildID, Name: name, Type: discordgo.ChannelTypeGuildText}
	f.Chans = append(f.Chans, ch)
	return ch, nil
}

func (f *Fake) DeleteChannel(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteChannel", channelID); err != nil {
		return err
	}
	for i, c := range f.Chans {
		if c.ID == channelID {
			f.Chans = append(f.Chans[:i], f.Chans[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("channel %s: %w", channelID, model.ErrNotFound)
}

func (f *Fake) SetSendMessages(channelID, roleID string, allowed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SetSendMessages", channelID, roleID, strconv.FormatBool(allowed)); err != nil {
		return err
	}
	f.Overwrites[channelID] = allowed
	return nil
}

func (f *Fake) Member(guildID, userID string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Member", guildID, userID); err != nil {
		return nil, err
	}
	m, ok := f.Members[userID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", userID, model.ErrNotFound)
	}
	return m, nil
}

func (f *Fake) Kick(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Kick", guildID, userID, reason); err != nil {
		return err
	}
	delete(f.Members, userID)
	return nil
}

func (f *Fake) Ban(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Ban", guildID, userID, reason); err != nil {
		return err
	}
	user := &discordgo.User{ID: userID}
	if m, ok := f.Members[userID]; ok {
		user = m.User
		delete(f.Members, userID)
	}
	f.BanList = append(f.BanList, &discordgo.GuildBan{Reason: reason, User: user})
	return nil
}

func (f *Fake) Bans(guildID string) ([]*discordgo.GuildBan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Bans", guildID); err != nil {
		return nil, err
	}
	return append([]*discordgo.GuildBan(nil), f.BanList...), nil
}

func (f *Fake) Unban(guildID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Unban", guildID, userID); err != nil {
		return err
	}
	for i, b := range f.BanList {
		if b.User.ID == userID {
			f.BanList = append(f.BanList[:i], f.BanList[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("ban for %s: %w", userID, model.ErrNotFound)
}

func (f *Fake) IsAdministrator(guildID, channelID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("IsAdministrator", guildID, channelID, userID); err != nil {
		return false, err
	}
	return f.Admins[userID], nil
}
