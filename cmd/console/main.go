package main

import (
	"flag"
	"os"

	"github.com/benbeisheim/chess-backend/internal/console"
	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2/log"
)

var noColor = flag.Bool("no-color", false, "disable colored board output")

func main() {
	flag.Parse()
	if *noColor {
		color.NoColor = true
	}
	log.SetLevel(log.LevelWarn)

	if err := console.NewSession(os.Stdin, os.Stdout).Run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
