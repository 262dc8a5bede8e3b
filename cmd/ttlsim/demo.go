// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/db47h/ttlsim"
	"github.com/db47h/ttlsim/ttltest"
)

var (
	demoCycles int
	demoFreq   float64
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a canned demo board",
}

func init() {
	demoCmd.PersistentFlags().IntVar(&demoCycles, "cycles", 12, "clock cycles to simulate")
	demoCmd.PersistentFlags().Float64Var(&demoFreq, "freq", 1, "clock frequency in simulated Hz")
	demoCmd.AddCommand(demoCounterCmd, demoAdderCmd, demoLatchCmd)
}

var demoCounterCmd = &cobra.Command{
	Use:   "counter",
	Short: "74LS90 decade counter driven by a clock",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := ttltest.New()
		if _, err := b.Socket("74LS90", "ic-1"); err != nil {
			return err
		}
		if err := b.WirePower("ic-1"); err != nil {
			return err
		}
		// reset switch on R0, set-9 inputs held low
		reset := b.AddSwitch("sw-reset")
		for _, p := range []int{2, 3} {
			if _, err := b.Wire("sw-reset", ttltest.PinID("ic-1", p)); err != nil {
				return err
			}
		}
		low := b.AddSwitch("sw-low")
		for _, p := range []int{6, 7} {
			if _, err := b.Wire("sw-low", ttltest.PinID("ic-1", p)); err != nil {
				return err
			}
		}
		// cascade QA into CKB for BCD counting
		if _, err := b.Wire(ttltest.PinID("ic-1", 12), ttltest.PinID("ic-1", 1)); err != nil {
			return err
		}
		clk := b.AddClock("clk", demoFreq)
		if _, err := b.Wire("clk", ttltest.PinID("ic-1", 14)); err != nil {
			return err
		}
		// power up in reset, then release and start the clock
		reset.Set(true)
		low.Set(false)
		b.Power.Set(true)
		b.Settle()
		reset.Set(false)
		b.Settle()
		clk.Start()
		period := int64(1e9 / demoFreq)
		for i := 0; i < demoCycles; i++ {
			b.Run(period)
			log.Infof("cycle %2d: count=%d", i+1, counterValue(b, "ic-1"))
		}
		return nil
	},
}

// counterValue reads QD..QA off a 74LS90/93 as an integer.
func counterValue(b *ttltest.Board, id string) int {
	v := 0
	for i, pin := range []int{12, 9, 8, 11} { // QA, QB, QC, QD
		if b.PinState(ttltest.PinID(id, pin)) == ttlsim.High {
			v |= 1 << i
		}
	}
	return v
}

var demoAdderCmd = &cobra.Command{
	Use:   "adder",
	Short: "74LS283 4-bit ripple adder",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := ttltest.New()
		if _, err := b.Socket("74LS283", "ic-1"); err != nil {
			return err
		}
		if err := b.WirePower("ic-1"); err != nil {
			return err
		}
		aPins := []int{5, 3, 14, 12}
		bPins := []int{6, 2, 15, 11}
		var aSw, bSw []*ttlsim.Switch
		for i := 0; i < 4; i++ {
			sa := b.AddSwitch(ttltest.PinID("sw-a", i+1))
			if _, err := b.Wire(ttltest.PinID("sw-a", i+1), ttltest.PinID("ic-1", aPins[i])); err != nil {
				return err
			}
			sb := b.AddSwitch(ttltest.PinID("sw-b", i+1))
			if _, err := b.Wire(ttltest.PinID("sw-b", i+1), ttltest.PinID("ic-1", bPins[i])); err != nil {
				return err
			}
			aSw, bSw = append(aSw, sa), append(bSw, sb)
		}
		c0 := b.AddSwitch("sw-c0")
		if _, err := b.Wire("sw-c0", ttltest.PinID("ic-1", 7)); err != nil {
			return err
		}
		c0.Set(false)
		b.Power.Set(true)
		b.Settle()
		for _, op := range [][2]int{{5, 3}, {9, 7}, {15, 1}} {
			for i := 0; i < 4; i++ {
				aSw[i].Set(op[0]&(1<<i) != 0)
				bSw[i].Set(op[1]&(1<<i) != 0)
			}
			b.Settle()
			sum := 0
			for i, pin := range []int{4, 1, 13, 10} {
				if b.PinState(ttltest.PinID("ic-1", pin)) == ttlsim.High {
					sum |= 1 << i
				}
			}
			if b.PinState(ttltest.PinID("ic-1", 9)) == ttlsim.High {
				sum |= 16
			}
			log.Infof("%d + %d = %d", op[0], op[1], sum)
		}
		return nil
	},
}

var demoLatchCmd = &cobra.Command{
	Use:   "latch",
	Short: "SR latch from two cross-coupled 74LS00 NAND gates",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := ttltest.New()
		if _, err := b.Socket("74LS00", "ic-1"); err != nil {
			return err
		}
		if err := b.WirePower("ic-1"); err != nil {
			return err
		}
		// gate 1 (1,2 -> 3) and gate 2 (4,5 -> 6), cross-coupled
		if _, err := b.Wire(ttltest.PinID("ic-1", 3), ttltest.PinID("ic-1", 4)); err != nil {
			return err
		}
		if _, err := b.Wire(ttltest.PinID("ic-1", 6), ttltest.PinID("ic-1", 2)); err != nil {
			return err
		}
		set := b.AddButton("btn-set")
		reset := b.AddButton("btn-reset")
		// buttons produce an active-low pulse through an inverter
		if _, err := b.Socket("74LS04", "ic-2"); err != nil {
			return err
		}
		if err := b.WirePower("ic-2"); err != nil {
			return err
		}
		if _, err := b.Wire("btn-set", ttltest.PinID("ic-2", 1)); err != nil {
			return err
		}
		if _, err := b.Wire(ttltest.PinID("ic-2", 2), ttltest.PinID("ic-1", 1)); err != nil {
			return err
		}
		if _, err := b.Wire("btn-reset", ttltest.PinID("ic-2", 3)); err != nil {
			return err
		}
		if _, err := b.Wire(ttltest.PinID("ic-2", 4), ttltest.PinID("ic-1", 5)); err != nil {
			return err
		}
		q := b.AddLED("led-q")
		if _, err := b.Wire(ttltest.PinID("ic-1", 3), "led-q"); err != nil {
			return err
		}
		b.Power.Set(true)
		b.Settle()
		log.Infof("initial Q=%v", b.PinState(ttltest.PinID("ic-1", 3)))
		set.Press()
		b.Run(2 * ttlsim.DefaultPulseWidth)
		log.Infof("after set: Q=%v lit=%v", b.PinState(ttltest.PinID("ic-1", 3)), q.Lit())
		reset.Press()
		b.Run(2 * ttlsim.DefaultPulseWidth)
		log.Infof("after reset: Q=%v lit=%v", b.PinState(ttltest.PinID("ic-1", 3)), q.Lit())
		return nil
	},
}
