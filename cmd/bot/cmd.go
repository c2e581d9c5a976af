package bot

import (
	"os"
	"os/signal"

	"emperror.dev/errors"
	"github.com/getsentry/sentry-go"
	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/commands/config"
	"github.com/starshine-sys/warden/commands/meta"
	"github.com/starshine-sys/warden/commands/moderation"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/web"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
}

func run(c *cli.Context) error {
	conf, err := bot.ReadConfig("config.toml")
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	// set up sentry
	if conf.Auth.Sentry != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     conf.Auth.Sentry,
			Release: common.Version(),
		})
		if err != nil {
			log.Fatalf("setting up sentry: %v", err)
		}

		log.Debug("set up sentry")
	} else {
		log.Debug("sentry DSN was not provided, not setting it up")
	}

	b, err := bot.New(conf)
	if err != nil {
		return errors.Wrap(err, "creating bot")
	}

	// set up command modules
	moderation.Setup(b)
	config.Setup(b)
	meta.Setup(b)

	if conf.API.Listen != "" {
		srv := web.New(b.Commands, b.Store, b.Audit)
		go func() {
			if err := srv.Serve(conf.API.Listen); err != nil {
				log.Errorf("serving API: %v", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, os.Kill)
	defer cancel()

	err = b.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "opening gateway connection")
	}

	defer func() {
		if err := b.Close(); err != nil {
			log.Errorf("closing gateway connection: %v", err)
		}
	}()

	<-ctx.Done()
	return nil
}
