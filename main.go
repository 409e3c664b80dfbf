package main

import "archup/cmd"

func main() {
	cmd.Execute()
}
