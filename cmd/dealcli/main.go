package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/dealchain"
)

// commands is a register of all available commands. The name is matched
// with the first argument given.
//
// A command function takes stdin, stdout and the command line arguments
// without the program and command name, which it parses with the flag
// package. It reads and writes only the provided input and output. Use
// os.Stderr for error messages.
//
// Keep a command small and combine them with a unix pipe. Creating,
// signing and submitting a transaction are separate commands:
//
//   $ dealcli init-deal -initializer $ME -mint-a $A -mint-b $B \
//       -amount 100 -expected 50 -seed 1 \
//       | dealcli sign \
//       | dealcli submit
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":   cmdBalance,
	"deals":     cmdDeals,
	"exchange":  cmdExchange,
	"init-deal": cmdInitDeal,
	"keyaddr":   cmdKeyaddr,
	"keygen":    cmdKeygen,
	"sign":      cmdSignTransaction,
	"submit":    cmdSubmitTransaction,
	"version":   cmdVersion,
	"view":      cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the dealchain application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, dealchain.Version())
	return err
}
