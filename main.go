package main

import "github.com/KaramelBytes/surveydash/cmd"

func main() {
	cmd.Execute()
}
