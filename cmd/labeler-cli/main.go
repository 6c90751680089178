package main

import "github.com/JonMunkholm/labeler/cmd/labeler-cli/cmd"

func main() {
	cmd.Execute()
}
