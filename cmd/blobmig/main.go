package main

import (
	"context"
	"os"
)

func main() {
	// Per-file and per-site failures never reach here; a non-zero exit
	// means the run itself was unusable (config, schema, missing inventory).
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
