// Command client drives the identity service from a shell: it registers a
// device, checks and refreshes tokens and requests activations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/client"
	"github.com/google/uuid"
)

type options struct {
	address      string
	deviceUUID   string
	device       string
	platform     string
	languages    stringList
	accessToken  string
	refreshToken string
	kind         string
	timeout      time.Duration
}

type stringList []string

func (l *stringList) String() string { return fmt.Sprint(*l) }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain parses args, runs one command and returns the process exit code:
// 0 on success, 1 when the command fails, 2 on usage errors.
func realMain(args []string, stdout, stderr io.Writer) int {
	var o options
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.address, "a", "localhost:50051", "identity server address")
	fs.StringVar(&o.deviceUUID, "device-uuid", "", "device identifier (random when empty)")
	fs.StringVar(&o.device, "device", "cli", "device label")
	fs.StringVar(&o.platform, "platform", "terminal", "platform label")
	fs.Var(&o.languages, "lang", "preferred language, repeatable")
	fs.StringVar(&o.accessToken, "access-token", "", "access token")
	fs.StringVar(&o.refreshToken, "refresh-token", "", "refresh token")
	fs.StringVar(&o.kind, "kind", "email", "activation kind: email or phone")
	fs.DurationVar(&o.timeout, "timeout", 10*time.Second, "request timeout")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: client [flags] ping|register|verify|refresh|activate")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	cmd := fs.Arg(0)

	c, err := client.NewIdentityClientService(o.address)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer c.Close()

	c.SetSession(client.Session{AccessToken: o.accessToken, RefreshToken: o.refreshToken})

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	out, err := run(ctx, c, cmd, o)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "encode output: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, c *client.GRPCClient, cmd string, o options) (any, error) {
	switch cmd {
	case "ping":
		if err := c.Ping(ctx); err != nil {
			return nil, err
		}
		return map[string]string{"status": "OK"}, nil
	case "register":
		if o.deviceUUID == "" {
			o.deviceUUID = uuid.NewString()
		}
		return c.RegisterDevice(ctx, o.deviceUUID, o.device, o.platform, o.languages)
	case "verify":
		ok, err := c.Verify(ctx, o.accessToken)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"valid": ok}, nil
	case "refresh":
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
		return c.Session(), nil
	case "activate":
		return c.RequestActivation(ctx, o.kind)
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}
