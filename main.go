package main

import "github.com/frahmantamala/center-access/cmd"

func main() {
	cmd.Execute()
}
