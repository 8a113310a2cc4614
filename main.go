package main

import "github.com/Beastly713/whisper/cmd"

func main() {
	cmd.Execute()
}
