package main

import "github.com/cortezalberto/aulaguard/internal/cli"

func main() {
	cli.Execute()
}
