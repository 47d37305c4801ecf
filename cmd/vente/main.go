package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Spok95/gestion-vente/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur :", err)
		os.Exit(1)
	}
}
