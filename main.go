package main

import (
	"github.com/wenzapen/vacancies/cmd"
)

func main() {
	cmd.Execute()
}
