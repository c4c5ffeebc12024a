// displaytool is the host-side companion for the device bridge: it tails
// telemetry coming up the serial link and can push config records down.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/shlex"

	"displaycode-go/host/monitor"
	"displaycode-go/host/serial"
	"displaycode-go/types"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	quiet  = flag.Bool("quiet", false, "Suppress the live telemetry feed")
)

func main() {
	flag.Parse()

	fmt.Println("displaytool - bridge telemetry monitor")
	fmt.Println()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Opening %s at %d baud...\n", cfg.Device, cfg.Baud)
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mon := monitor.New(port, func(rec types.TelemetryRecord) {
		if *quiet {
			return
		}
		printRecord(rec)
	})
	defer mon.Close()

	go func() {
		<-mon.Done()
		if err := mon.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Link lost: %v\n", err)
		}
		os.Exit(1)
	}()

	fmt.Println("Connected. Type 'help' for commands, 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "ping":
			if err := doPing(mon); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "cfg":
			if err := doConfig(mon, args[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", args[0])
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println()
	fmt.Println("Available commands:")
	fmt.Println("  help                 - Show this help message")
	fmt.Println("  ping                 - Round-trip the link")
	fmt.Println("  cfg <section> <json> - Push a config record, e.g. cfg ui '{\"frame_rate\":25}'")
	fmt.Println("  quit/exit/q          - Exit the program")
	fmt.Println()
}

func doPing(mon *monitor.Monitor) error {
	start := time.Now()
	if err := mon.Ping(2 * time.Second); err != nil {
		return err
	}
	fmt.Printf("pong in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func doConfig(mon *monitor.Monitor, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: cfg <section> <json>")
	}
	var payload any
	if err := json.Unmarshal([]byte(args[1]), &payload); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if err := mon.SendConfig(args[0], payload); err != nil {
		return err
	}
	fmt.Printf("config/%s sent\n", strings.TrimPrefix(args[0], "config/"))
	return nil
}
