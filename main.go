package main

import "github.com/jmehdipour/econnect-gateway/cmd"

func main() {
	cmd.Execute()
}
