package main

import "github.com/maastricht-university/moodtrack/cmd"

func main() {
	cmd.Execute()
}
