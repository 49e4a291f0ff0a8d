// Command gamechat is a terminal client for the game assistant backend.
package main

import "github.com/diogo/gamechat/internal/commands"

func main() {
	commands.Execute()
}
