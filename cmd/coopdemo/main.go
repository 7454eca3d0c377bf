// Command coopdemo exercises the coop runtime against real host timers.
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coopkit/coop"
)

func main() {
	root := &cobra.Command{
		Use:           "coopdemo",
		Short:         "Demos for the coop cooperative task runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(raceCmd(), ticksCmd())

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func raceCmd() *cobra.Command {
	var slow, fast time.Duration

	cmd := &cobra.Command{
		Use:   "race",
		Short: "Race two host timers with Select",
		RunE: func(_ *cobra.Command, _ []string) error {
			var e coop.Executor

			var wg sync.WaitGroup
			defer wg.Wait()

			// Timer callbacks fire on their own goroutines; every one of
			// them funnels through Spawn onto one logical thread.
			e.Autorun(func() {
				wg.Add(1)
				go func() {
					defer wg.Done()
					e.Run()
				}()
			})

			clk := clock.New()

			a := coop.Timeout(&e, clk, slow)
			b := coop.Timeout(&e, clk, fast)

			done := make(chan int, 1)

			e.Spawn(coop.Select(func(index int) {
				a.Cancel()
				b.Cancel()
				done <- index
			}, a, b))

			if winner := <-done; winner == 0 {
				color.Green("slow timer (%v) won", slow)
			} else {
				color.Green("fast timer (%v) won", fast)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&slow, "slow", 300*time.Millisecond, "slow timer duration")
	cmd.Flags().DurationVar(&fast, "fast", 100*time.Millisecond, "fast timer duration")

	return cmd
}

func ticksCmd() *cobra.Command {
	var (
		every time.Duration
		count int
	)

	cmd := &cobra.Command{
		Use:   "ticks",
		Short: "Consume a repeating host timer through a Listener",
		RunE: func(_ *cobra.Command, _ []string) error {
			var e coop.Executor

			var wg sync.WaitGroup
			defer wg.Wait()

			e.Autorun(func() {
				wg.Add(1)
				go func() {
					defer wg.Done()
					e.Run()
				}()
			})

			l := coop.Every(&e, clock.New(), every)

			done := make(chan struct{})

			n := 0

			e.Spawn(func(co *coop.Coroutine) coop.Result {
				for l.Ready() {
					if _, err := l.Recv(); err != nil {
						close(done)
						return co.End()
					}
					n++
					fmt.Printf("tick %d\n", n)
					if n == count {
						l.Close()
					}
				}
				return co.Await(l)
			})

			<-done
			color.Cyan("done after %d ticks", count)
			return nil
		},
	}

	cmd.Flags().DurationVar(&every, "every", 200*time.Millisecond, "tick interval")
	cmd.Flags().IntVar(&count, "count", 5, "number of ticks to consume")

	return cmd
}
