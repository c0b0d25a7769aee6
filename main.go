package main

import "github.com/KaramelBytes/tokenscope/cmd"

func main() {
	cmd.Execute()
}
