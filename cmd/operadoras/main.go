package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/samvad-hq/ans-operadoras/internal/app"
	"github.com/samvad-hq/ans-operadoras/internal/config"
	"github.com/samvad-hq/ans-operadoras/internal/logger"
)

type cliArgs struct {
	Raw bool `help:"Print response bodies as received, without indentation."`

	Operadoras    operadorasCmd    `cmd:"" help:"Query active health-insurance operators."`
	Demonstracoes demonstracoesCmd `cmd:"" help:"Query quarterly accounting statements."`
	Filtros       filtrosCmd       `cmd:"" help:"Fetch every filter list (UFs, modalidades, descrições, trimestres) at once."`
	Anexos        anexosCmd        `cmd:"" help:"Download the procedure annexes from the ANS portal into a zip file."`
}

func main() {
	var cli cliArgs
	kctx := kong.Parse(&cli,
		kong.Name("operadoras"),
		kong.Description("Command-line client for the ANS operadoras and demonstrações API"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Summary: true,
			Compact: true,
		}),
	)

	if err := run(kctx, cli.Raw); err != nil {
		fmt.Fprintf(os.Stderr, "operadoras: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context, raw bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	api, err := app.NewAPI(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := &runtime{
		ctx: ctx,
		cfg: cfg,
		api: api,
		out: os.Stdout,
		raw: raw,
	}
	return kctx.Run(rt)
}
