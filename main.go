package main

import "github.com/chukul/eventpush/cmd"

func main() {
	cmd.Execute()
}
