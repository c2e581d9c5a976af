package meta

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/common/log"
)

const invitePerms = discord.PermissionViewChannel |
	discord.PermissionReadMessageHistory |
	discord.PermissionSendMessages |
	discord.PermissionEmbedLinks |
	discord.PermissionManageMessages |
	discord.PermissionManageChannels |
	discord.PermissionKickMembers |
	discord.PermissionBanMembers |
	bot.PermissionModerateMembers |
	discord.PermissionViewAuditLog

func (bot *Bot) help(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "**%v** keeps your server safe. All commands are slash commands; moderation commands are gated on the capabilities your roles grant.\n\n", bot.User().Username)

	b.WriteString("**Commands**\n")
	for _, def := range bot.Commands.Load().List() {
		fmt.Fprintf(&b, "`/%v`: %v\n", strings.ReplaceAll(def.Name, "/", " "), def.Summary)
	}

	for _, f := range bot.Config.Info.HelpFields {
		fmt.Fprintf(&b, "\n**%v**\n%v\n", f.Name, f.Value)
	}

	if bot.Config.Info.SupportServer != "" {
		fmt.Fprintf(&b, "\n**Support server**\nUse this link to join the support server: %v\n", bot.Config.Info.SupportServer)
	}

	return &command.Result{Content: b.String(), Ephemeral: true}, nil
}

func (bot *Bot) ping(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	return &command.Result{
		Content:   fmt.Sprintf("🏓 Pong! Up for %v.", uptime(bot.Start)),
		Ephemeral: true,
	}, nil
}

func (bot *Bot) invite(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	link := fmt.Sprintf(
		"https://discord.com/api/oauth2/authorize?client_id=%v&permissions=%v&scope=bot%%20applications.commands",
		bot.User().ID, invitePerms,
	)

	return &command.Result{
		Content:   fmt.Sprintf("Use this link to invite %v to your server: <%v>", bot.User().Username, link),
		Ephemeral: true,
	}, nil
}

func (bot *Bot) stats(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)

	guilds := 0
	bot.ShardManager.ForEach(func(sh shard.Shard) {
		s := sh.(*state.State)
		gs, err := s.Cabinet.Guilds()
		if err == nil {
			guilds += len(gs)
		}
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%v %v\n", bot.User().Username, common.Version())
	fmt.Fprintf(&b, "**Servers:** %v (%v shards)\n", guilds, bot.ShardManager.NumShards())
	fmt.Fprintf(&b, "**Uptime:** %v (since <t:%v:f>)\n", uptime(bot.Start), bot.Start.Unix())
	fmt.Fprintf(&b, "**Memory:** %v used / %v allocated by runtime\n", humanize.Bytes(ms.Alloc), humanize.Bytes(ms.Sys))
	fmt.Fprintf(&b, "**Goroutines:** %v\n", runtime.NumGoroutine())

	sysMem, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("getting system memory: %v", err)
	} else {
		fmt.Fprintf(&b, "**System memory:** %v / %v (%.1f%%)\n",
			humanize.Bytes(sysMem.Used), humanize.Bytes(sysMem.Total), sysMem.UsedPercent)
	}

	return &command.Result{Content: b.String(), Ephemeral: true}, nil
}

func uptime(start time.Time) string {
	d := time.Since(start).Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour

	if days > 0 {
		return fmt.Sprintf("%vd %v", int(days), d)
	}
	return d.String()
}
