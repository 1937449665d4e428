// Command dmg01 loads a ROM image and runs it, either under ebiten's
// display loop or, with -debug, the interactive BIOS console.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nwidger/dmg01/cartridge"
	"github.com/nwidger/dmg01/system"
)

var (
	romFile = flag.String("rom", "", "Path to the Game Boy ROM to run.")
	debug   = flag.Bool("debug", false, "Start in the interactive BIOS console instead of the display loop.")
)

func main() {
	flag.Parse()

	rom, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}
	cart := cartridge.FromBytes(rom, 0x2000)

	sys := system.New(cart)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *debug {
		sys.BIOS(ctx)
		return
	}

	go sys.Run(ctx)

	if err := ebiten.RunGame(sys); err != nil {
		log.Fatal(err)
	}

	cancel()
	os.Exit(0)
}
