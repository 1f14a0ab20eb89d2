package main

import "github.com/taxops/gstledger/src/cmd"

func main() {
	cmd.Execute()
}
