package main

import (
	"log"

	"github.com/SergeiSkv/SwiftA11y/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
