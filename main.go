package main

import "github.com/soffiafdz/palimpsest-sub003/cmd"

func main() {
	cmd.Execute()
}
