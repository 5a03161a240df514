/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labmarkers/cmd"
	"github.com/humaidq/labmarkers/logging"
)

func main() {
	logging.Init()

	app := &cli.Command{
		Name:  "labmarkers",
		Usage: "Extract and classify health markers from lab reports",
		Commands: []*cli.Command{
			cmd.CmdDetect,
			cmd.CmdStart,
			cmd.CmdMigrate,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.Logger(logging.SourceApp).Fatal("Command failed", "error", err)
	}
}
