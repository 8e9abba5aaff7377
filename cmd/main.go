package main

import "github.com/llama-swappo/swappo/internal/cmd"

func main() {
	cmd.Run()
}
