// Command cryptokit encrypts and decrypts salted strings, issues and checks
// expiring HMAC tokens, and serves both over HTTP.
//
//	cryptokit encrypt --salt my-salt "This is my string"
//	cryptokit sign --salt s --data user@example.com --ttl 1h
//	cryptokit serve --config config.yml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

const usage = `Usage: cryptokit <command> [flags] [args]

Commands:
  encrypt   encrypt text (argument or stdin) with the configured cryptographer
  decrypt   decrypt text (argument or stdin)
  sign      issue an expiring HMAC token for --salt and --data
  verify    check a token; exits 1 unless the result is OK
  md5       print the lowercase hex MD5 of text
  mask      mask all but the first or last characters of text
  serve     run the HTTP server
  version   print build information

Run "cryptokit <command> --help" for command flags.
`

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command func(ctx context.Context, env *cliEnv, args []string) error

var commands = map[string]command{
	"encrypt": cmdEncrypt,
	"decrypt": cmdDecrypt,
	"sign":    cmdSign,
	"verify":  cmdVerify,
	"md5":     cmdMD5,
	"mask":    cmdMask,
	"serve":   cmdServe,
	"version": cmdVersion,
}

// cliEnv carries the process streams so commands are testable.
type cliEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}

	env := &cliEnv{stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, env, args[1:]); err != nil {
		return report(stderr, err)
	}
	return exitOK
}
