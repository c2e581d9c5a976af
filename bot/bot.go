// Package bot is the Discord adapter: it owns the gateway connection and
// translates interactions into invocations for the dispatcher.
package bot

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	arikawastore "github.com/diamondburned/arikawa/v3/state/store"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/starshine-sys/warden/audit"
	"github.com/starshine-sys/warden/auth"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/dispatch"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/stats"
	"github.com/starshine-sys/warden/store"
	"github.com/starshine-sys/warden/store/postgres"
	"github.com/starshine-sys/warden/store/redis"
)

const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMembers |
	gateway.IntentGuildBans

type Bot struct {
	ShardManager *shard.Manager
	Config       Config

	// DB is the postgres layer; Store is what the dispatcher reads, and may
	// wrap DB in a redis cache.
	DB    *postgres.Store
	Store store.Store

	Commands   *command.Holder
	Dispatcher *dispatch.Dispatcher
	Audit      *audit.PGSink
	Stats      *stats.Client

	user discord.User

	// Start is when the bot process came up, for uptime reporting.
	Start time.Time

	// defs and slash are filled by module Setup calls before Open.
	defs  []command.Definition
	slash []api.CreateCommandData
}

// New creates a new Bot.
func New(c Config) (*Bot, error) {
	// set up debug logging
	ws.WSDebug = log.Debug
	ws.WSError = func(err error) {
		log.SugaredLogger.Error("ws error: ", err)
	}

	mgr, err := shard.NewManager("Bot "+c.Auth.Discord, state.NewShardFunc(func(m *shard.Manager, s *state.State) {
		s.AddIntents(Intents)

		// we don't use the message or presence caches
		s.Cabinet.MessageStore = arikawastore.Noop
		s.Cabinet.PresenceStore = arikawastore.Noop
	}))
	if err != nil {
		return nil, errors.Wrap(err, "creating shard manager")
	}

	bot := &Bot{
		ShardManager: mgr,
		Config:       c,
		Commands:     command.NewHolder(command.NewRegistry()),
		Start:        time.Now(),
	}

	bot.DB, err = postgres.New(c.Auth.Postgres, !c.Bot.NoAutoMigrate)
	if err != nil {
		return nil, errors.Wrap(err, "creating database")
	}
	bot.Store = bot.DB

	if c.Auth.Redis != "" {
		bot.Store, err = redis.New(c.Auth.Redis, bot.DB)
		if err != nil {
			return nil, errors.Wrap(err, "creating redis cache")
		}
	}

	if c.Auth.Influx.URL != "" {
		bot.Stats = stats.New(c.Auth.Influx.URL, c.Auth.Influx.Token, c.Auth.Influx.Organization, c.Auth.Influx.Database)
	}

	bot.Audit = audit.NewPGSink(bot.DB.Pool)

	bot.Dispatcher = dispatch.New(bot.Commands, bot.Store, auth.New(perm.Default), audit.Multi{
		audit.NewLogSink(),
		bot.Audit,
		&ChannelSink{bot: bot},
	})
	bot.Dispatcher.Stats = bot.Stats

	// self user cache, gateway event metrics, interactions
	mgr.Shard(0).(*state.State).AddHandler(bot.ready)
	bot.AddHandler(bot.Stats.EventHandler, bot.interactionCreate)

	return bot, nil
}

// Register adds a command definition, and the slash commands that should map
// onto it, to the sets synced on Open. Modules call this during Setup, before
// the gateway opens.
func (bot *Bot) Register(def command.Definition, slash ...api.CreateCommandData) {
	bot.defs = append(bot.defs, def)
	bot.slash = append(bot.slash, slash...)
}

// Definitions returns the command definitions registered so far. The set is
// published to Commands when Open builds the live registry.
func (bot *Bot) Definitions() []command.Definition {
	return bot.defs
}

// Open publishes the registered commands, synchronizes slash commands with
// Discord, and connects to the gateway.
func (bot *Bot) Open(ctx context.Context) error {
	reg := command.NewRegistry()
	for _, def := range bot.defs {
		if err := reg.Register(def); err != nil {
			return errors.Wrap(err, "registering commands")
		}
	}
	bot.Commands.Swap(reg)

	if !bot.Config.Bot.NoSyncCommands {
		if err := bot.syncCommands(); err != nil {
			return errors.Wrap(err, "syncing slash commands")
		}
	}

	log.Debug("opening gateway connection")
	if err := bot.ShardManager.Open(ctx); err != nil {
		return err
	}

	if !bot.Config.Bot.NoStatusLoop {
		go bot.statusLoop(ctx)
	}
	return nil
}

func (bot *Bot) Close() error {
	return bot.ShardManager.Close()
}

// AddHandler adds handlers to all states.
func (bot *Bot) AddHandler(i ...any) {
	bot.ShardManager.ForEach(func(shard shard.Shard) {
		s := shard.(*state.State)
		for _, hn := range i {
			s.AddHandler(hn)
		}
	})
}

func (bot *Bot) StateFromGuildID(guildID discord.GuildID) (s *state.State, id int) {
	shard, id := bot.ShardManager.FromGuildID(guildID)
	return shard.(*state.State), id
}

// ready sets the bot user for invite and status purposes
func (bot *Bot) ready(ev *gateway.ReadyEvent) {
	if ev.Shard == nil || ev.Shard.ShardID() != 0 {
		return
	}
	bot.user = ev.User
}

// User returns the bot's own user, set after the first ready event.
func (bot *Bot) User() discord.User {
	return bot.user
}
