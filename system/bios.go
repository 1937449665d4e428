package system

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
)

// BIOS is an interactive debug console: breakpoints, single-stepping,
// register/memory/stack dumps and a free-run mode built around the
// CPU's String() method.
func (s *System) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("%s\n\n", &s.CPU.Registers)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to completion")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - show a memory range")
		fmt.Println("S(t)ack - show the top of the stack")
		fmt.Println("(P)C - set program counter")
		fmt.Println("(Q)uit - shut down")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			s.CPU.PC = readAddress("Set PC to what address (eg: 0400)?: ")
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func(ctx context.Context) {
				for {
					select {
					case <-sigQuit:
						cancel()
					case <-ctx.Done():
						return
					}
				}
			}(cctx)
			s.runUntilBreak(cctx, breaks)
		case 's', 'S':
			s.Step()
		case 't', 'T':
			fmt.Println()
			for i := 0; i < 3; i++ {
				addr := s.CPU.SP + uint16(i)
				fmt.Printf("0x%04x: 0x%02x ", addr, s.MMU.Get(addr))
				if addr == math.MaxUint16 {
					break
				}
			}
			fmt.Printf("\n\n")
		case 'e', 'E':
			s.CPU.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			for i := low; ; i++ {
				fmt.Printf("0x%04x: 0x%02x ", i, s.MMU.Get(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x++
			}
			fmt.Printf("\n\n")
		}
	}
}

func (s *System) runUntilBreak(ctx context.Context, breaks map[uint16]struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.Step()
			if _, hit := breaks[s.CPU.PC]; hit {
				return
			}
		}
	}
}

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}
