package main

import "vocalog/cmd"

func main() {
	cmd.Execute()
}
