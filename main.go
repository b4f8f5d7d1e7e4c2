package main

import "github.com/KaramelBytes/dietwater/cmd"

func main() {
	cmd.Execute()
}
