package main

import (
	"log"

	"github.com/oms-support/ticketdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
