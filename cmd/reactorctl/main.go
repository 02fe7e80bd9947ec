// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command reactorctl drives a reactor.ReactorSet from a CPU mask, for
// manual smoke-testing of the core outside of a unit test.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/luxfi/reactor"
)

func main() {
	app := &cli.App{
		Name:  "reactorctl",
		Usage: "run a per-CPU reactor set from a hex CPU mask",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mask",
				Usage: "hexadecimal CPU mask, e.g. 0x3",
				Value: "0x1",
			},
			&cli.UintFlag{
				Name:  "master",
				Usage: "master CPU",
				Value: 0,
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	set := reactor.NewReactorSet(
		reactor.WithLogger(logger),
		reactor.WithMasterCore(uint32(c.Uint("master"))),
	)
	if err := set.Init(c.String("mask")); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		set.Stop()
	}()

	return set.Start()
}
