package main

import "matcha-backend/cmd"

func main() {
	cmd.Run()
}
