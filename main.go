package main

import "github.com/KaramelBytes/regionstats/cmd"

func main() {
	cmd.Execute()
}
