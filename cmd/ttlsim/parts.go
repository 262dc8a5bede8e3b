// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/db47h/ttlsim/ttllib"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "List the part catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range ttllib.Parts() {
			ch, err := ttllib.New(p, "probe")
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %2d-pin  VCC=%-2d GND=%-2d\n", p, ch.Pins, ch.VCCPin(), ch.GNDPin())
		}
		return nil
	},
}
