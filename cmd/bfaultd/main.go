// Command bfaultd serves a few demo routes whose failures are answered with negotiated error
// responses. Try it with different Accept headers:
//
//	curl -H 'Accept: text/plain' localhost:8080/does-not-exist
//	curl -H 'Accept: application/json' -X POST localhost:8080/hello/world
//	curl -H 'Accept: text/html' localhost:8080/panic
package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/advdv/bfault"
	"github.com/advdv/bfault/bfaultapp"
	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// CLI holds the command line flags.
type CLI struct {
	EnvFile      string `help:"Load environment variables from this file, if it exists." default:".env"`
	Port         int    `help:"Listen on this port, overrides BF_PORT."`
	ErrorDetails bool   `help:"Render diagnostic details of fatal faults, overrides BF_ERROR_DETAILS."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("bfaultd"),
		kong.Description("Demo server answering failures with content-negotiated error responses."))

	kctx.FatalIfErrorf(cli.apply())

	bfaultapp.NewApp[bfaultapp.BaseEnvironment](routing).Run()
}

// apply loads the env file and lets flags override the environment.
func (c CLI) apply() error {
	if err := godotenv.Load(c.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "load env file %q", c.EnvFile)
	}

	if c.Port != 0 {
		if err := os.Setenv("BF_PORT", strconv.Itoa(c.Port)); err != nil {
			return errors.Wrap(err, "set BF_PORT")
		}
	}

	if c.ErrorDetails {
		if err := os.Setenv("BF_ERROR_DETAILS", "true"); err != nil {
			return errors.Wrap(err, "set BF_ERROR_DETAILS")
		}
	}

	return nil
}

func routing(m *bfaultapp.Mux) {
	m.HandleFunc("GET /hello/{name}", func(w bfault.ResponseWriter, r *http.Request) error {
		_, err := fmt.Fprintf(w, "hello, %s\n", r.PathValue("name"))
		return err
	})

	m.HandleFunc("GET /fail", func(w bfault.ResponseWriter, _ *http.Request) error {
		fmt.Fprint(w, "partial output that is discarded")
		return errors.New("upstream database is unavailable")
	})

	m.HandleFunc("GET /panic", func(bfault.ResponseWriter, *http.Request) error {
		var counts map[string]int
		counts["boom"]++ // assignment to entry in nil map

		return nil
	})
}
