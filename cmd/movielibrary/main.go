package main

import "github.com/afarhat-dev/vertical-slice-poc/movielibrary/cli"

func main() {
	cli.Execute()
}
