package main

import "github.com/nala-edu/ai-grader/cmd/grader/cmd"

func main() {
	cmd.Execute()
}
