package main

import (
	"fmt"
	"os"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case catalogMode:
		catalogMain(cli.Catalog, LoadConfigOrDefault())
	case romInfosMode:
		romInfosMain(cli.RomInfos)
	case configMode:
		configMain(cli.Config, LoadConfigOrDefault())
	case versionMode:
		fmt.Println(versionString())
	}
}
