package main

import (
	"github.td.teradata.com/sandbox/logic-rom/internal/cmd"
	"log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
