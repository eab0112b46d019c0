// Command bounded runs scripted operations against bounded arrays and
// inspects array snapshots.
package main

import "github.com/pavanmanishd/bounded/internal/cli"

func main() {
	cli.Execute()
}
