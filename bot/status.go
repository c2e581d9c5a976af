package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/warden/common/log"
)

// statusLoop periodically updates the bot's presence with the guild count.
func (bot *Bot) statusLoop(ctx context.Context) {
	// wait for the gateway to settle before the first update
	select {
	case <-time.After(5 * time.Second):
	case <-ctx.Done():
		return
	}

	for {
		bot.updateStatus(ctx)

		select {
		case <-time.After(10 * time.Minute):
		case <-ctx.Done():
			return
		}
	}
}

func (bot *Bot) updateStatus(ctx context.Context) {
	guildCount := 0
	bot.ShardManager.ForEach(func(s shard.Shard) {
		state := s.(*state.State)

		guilds, _ := state.Cabinet.Guilds()
		guildCount += len(guilds)
	})

	status := "/warden help"
	if guildCount != 0 {
		status = fmt.Sprintf("/warden help | in %v servers", guildCount)
	}

	shardNumber := 0
	bot.ShardManager.ForEach(func(s shard.Shard) {
		state := s.(*state.State)

		i := shardNumber
		shardNumber++

		name := status
		if bot.ShardManager.NumShards() > 1 {
			name = fmt.Sprintf("%v | shard #%v", name, i)
		}

		err := state.Gateway().Send(ctx, &gateway.UpdatePresenceCommand{
			Status: discord.OnlineStatus,
			Activities: []discord.Activity{{
				Name: name,
				Type: discord.GameActivity,
			}},
		})
		if err != nil {
			log.Errorf("setting status for shard #%v: %v", i, err)
		}
	})
}
