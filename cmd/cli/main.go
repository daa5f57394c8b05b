package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"strings"

	"github.com/minaorangina/rundown/config"
	"github.com/minaorangina/rundown/display"
	"github.com/minaorangina/rundown/engine"
	"github.com/minaorangina/rundown/protocol"
	"go.uber.org/zap"
)

const help = `Commands:
  join <name>      take a seat
  leave <name>     give up a seat
  start            deal the cards
  select <card>    select a card for whoever's turn it is, e.g. select 7-hearts
  deselect <card>  put a selected card back
  play [cards...]  play the cards given, or the selection
  end              end the round now
  restart          back to the lobby
  quit
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// logs would interleave with the table unless asked for
	logger := zap.NewNop()
	if cfg.Dev {
		if logger, err = cfg.Logger(); err != nil {
			log.Fatal(err)
		}
	}
	defer logger.Sync()

	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		CreatorID: "table",
		Game:      cfg.GameOpts(),
		Logger:    logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ge.Listen(ctx)

	out := display.Stdout
	if err := ge.Watch(engine.NewCLIPlayer("table", "Table", out)); err != nil {
		log.Fatal(err)
	}
	engine.SendText(out, help)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		case "help":
			engine.SendText(out, help)
			continue
		}

		msg, err := engine.ParseCommand(line, ge.Snapshot())
		if err != nil {
			engine.SendText(out, "%s\n", err)
			continue
		}
		e, err := protocol.ToEvent(msg)
		if err != nil {
			engine.SendText(out, "%s\n", err)
			continue
		}

		accepted, err := ge.Send(e)
		if err != nil {
			log.Fatal(err)
		}
		if !accepted {
			engine.SendText(out, "%s\n", protocol.NewRejectedMessage("table", msg.Command, ge.Snapshot().State).Message)
		}
	}
}
