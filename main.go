package main

import "github.com/Tiliavir/trivial-reminder/cmd"

func main() {
	cmd.Execute()
}
