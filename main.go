package main

import "github.com/IDM-desaive/formbricks/cmd"

func main() {
	cmd.Execute()
}
