package main

import (
	"context"

	"github.com/kozmoz/thuisbezorgd-scraper/cmd/thuisbezorgd/commands"
	"github.com/kozmoz/thuisbezorgd-scraper/lib/osutil"
)

func main() {
	ctx, stop := osutil.SignalContext(context.Background())
	defer stop()
	commands.ExecuteContext(ctx)
}
