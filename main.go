package main

import (
	"log"
	"time"

	_ "github.com/anoixa/media-studio/docs"

	"github.com/anoixa/media-studio/config"

	"github.com/anoixa/media-studio/cmd"
)

func init() {
	var cstZone = time.FixedZone("CST", 8*3600) // 东八
	time.Local = cstZone
}

func main() {
	log.Printf("media studio %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
