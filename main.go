package main

import (
	_ "time/tzdata"

	"github.com/frahmantamala/ipg-checkout/cmd"
)

func main() {
	cmd.Execute()
}
