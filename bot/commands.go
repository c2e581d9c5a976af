package bot

import (
	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/warden/common/log"
)

// syncCommands overwrites the bot's slash commands with the registered set.
// With commands_guild_id set, commands are written to that guild only, which
// skips Discord's global propagation delay during development.
func (bot *Bot) syncCommands() error {
	s := bot.ShardManager.Shard(0).(*state.State)

	app, err := s.CurrentApplication()
	if err != nil {
		return errors.Wrap(err, "getting application")
	}

	if bot.Config.Bot.CommandsGuildID.IsValid() {
		_, err = s.BulkOverwriteGuildCommands(app.ID, bot.Config.Bot.CommandsGuildID, bot.slash)
		if err != nil {
			return errors.Wrap(err, "overwriting guild commands")
		}

		log.Infof("synced %v slash commands to guild %v", len(bot.slash), bot.Config.Bot.CommandsGuildID)
		return nil
	}

	_, err = s.BulkOverwriteCommands(app.ID, bot.slash)
	if err != nil {
		return errors.Wrap(err, "overwriting commands")
	}

	log.Infof("synced %v slash commands globally", len(bot.slash))
	return nil
}
