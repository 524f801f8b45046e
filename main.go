package main

import (
	"fmt"
	"os"

	"github.com/KitchenMishap/pudding-pixels/config"
	"github.com/KitchenMishap/pudding-pixels/jobs"
)

func main() {
	cfg, err := config.Load(os.Args[1:], config.DefaultEnvFile)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(2)
	}

	_, err = jobs.CompressImageToFiles(cfg)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
