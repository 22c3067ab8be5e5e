package main

import "github.com/nguyentantai21042004/minutes-flow/cmd/minutes/cmd"

func main() {
	cmd.Execute()
}
