package main

import "github.com/vietddude/oldestdate/internal/cli"

func main() {
	cli.Execute()
}
