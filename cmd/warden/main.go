package main

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/starshine-sys/warden/cmd"
	"github.com/starshine-sys/warden/common/log"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatal(err)
	}
}
