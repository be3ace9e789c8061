package main

import "github.com/yeastml/fetcher/cmd"

func main() {
	cmd.Execute()
}
