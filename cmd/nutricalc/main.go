// nutricalc computes nutritional values of recipes and menus.
//
// Usage:
//
//	nutricalc [--catalog foods.yaml] [--verbose] list|show|shell|export|init-db
package main

import "github.com/hammamikhairi/nutricalc/internal/cli"

func main() {
	cli.Execute()
}
