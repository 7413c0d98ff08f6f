package main

import (
	"github.com/vietddude/storyforge/internal/cli"
)

func main() {
	cli.Execute()
}
