package main

import (
	"github.com/nearwatch/receipt-watcher/cmd/receipt-watcher/cmd"
)

func main() {
	cmd.Execute()
}
