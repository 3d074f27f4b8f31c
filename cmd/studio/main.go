package main

import "github.com/shouni/gemini-design-kit/internal/cli"

func main() {
	cli.Execute()
}
