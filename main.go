package main

import (
	"os"

	"poupeai/statement-ingestion/cmd/configcmd"
	"poupeai/statement-ingestion/cmd/parse"
	"poupeai/statement-ingestion/cmd/root"
	"poupeai/statement-ingestion/cmd/worker"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(worker.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(configcmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		root.Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
