package main

import (
	"github.com/urfave/cli"
)

func newCLI() *cli.App {
	cfg := &Config{}

	app := cli.NewApp()
	app.Name = "cookiebridge"
	app.Usage = "example server for the cookiebridge package"
	app.Version = version
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "start the example HTTP server",
			Flags: serveFlags(cfg),
			Action: func(c *cli.Context) error {
				return serve(cfg)
			},
		},
	}
	return app
}

func serve(cfg *Config) error {
	log, err := cfg.logger()
	if err != nil {
		return err
	}

	app, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	return app.Start()
}
