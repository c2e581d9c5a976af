package bot

import (
	"os"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/diamondburned/arikawa/v3/discord"
)

type Config struct {
	Auth AuthConfig `toml:"auth"`
	Bot  BotConfig  `toml:"bot"`
	API  APIConfig  `toml:"api"`
	Info InfoConfig `toml:"info"`
}

type AuthConfig struct {
	Discord  string `toml:"discord"`
	Postgres string `toml:"postgres"`
	Redis    string `toml:"redis"`
	Sentry   string `toml:"sentry"`

	Influx AuthInfluxConfig `toml:"influx"`
}

type AuthInfluxConfig struct {
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	Organization string `toml:"organization"`
	Database     string `toml:"database"`
}

type BotConfig struct {
	Owner           discord.UserID  `toml:"owner"`
	CommandsGuildID discord.GuildID `toml:"commands_guild_id"`
	NoSyncCommands  bool            `toml:"no_sync_commands"`
	NoStatusLoop    bool            `toml:"no_status_loop"`

	// NoAutoMigrate specifies if migrations should be done automatically when
	// the bot starts. If this is set to true, migrations must be done manually
	// by running the `./warden migrate` command.
	NoAutoMigrate bool `toml:"no_auto_migrate"`
}

type APIConfig struct {
	// Listen is the address the dashboard API binds to. Empty disables the
	// API entirely.
	Listen string `toml:"listen"`
}

type InfoConfig struct {
	SupportServer string `toml:"support_server"`

	HelpFields []discord.EmbedField `toml:"help_fields"`
}

func ReadConfig(path string) (c Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config file")
	}

	err = toml.Unmarshal(b, &c)
	if err != nil {
		return c, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}
