package main

import (
	"log"

	"github.com/venkuppu-chn/cortx/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
