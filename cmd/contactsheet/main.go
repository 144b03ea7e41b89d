package main

import "github.com/wqyuan/contactsheet/internal/cli"

func main() {
	cli.Execute()
}
