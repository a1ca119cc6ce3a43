package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/uriscope/uriscope/modules/cli"
	"github.com/uriscope/uriscope/modules/prefixes"
	"github.com/uriscope/uriscope/modules/sparql"
	"github.com/uriscope/uriscope/modules/ui"
	"github.com/uriscope/uriscope/modules/view"
)

// One-shot mode: resolve a single path or URI, describe it against the
// endpoint and print the page model, without starting the web service.

var qjson = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	command = &cobra.Command{
		Use:   "resolve [path or URI]",
		Short: "Resolves and describes a single resource, printing the result",
		Args:  cobra.ExactArgs(1),
	}

	endpoint  = command.Flags().String("endpoint", "http://localhost:8890/sparql", "SPARQL endpoint to describe resources against")
	namespace = command.Flags().String("namespace", "", "Entity namespace; request paths resolve against it")
	format    = command.Flags().String("format", "page", "Output format: page or one of "+sparql.RawFormatNames())
)

func init() {
	command.RunE = Execute
	cli.Root.AddCommand(command)
}

func Execute(cmd *cobra.Command, args []string) error {
	pm, err := prefixes.Load(filepath.Join(*cli.Datapath, "prefixes.json"))
	if err != nil {
		ui.Warn().Msgf("Prefix table degraded: %v", err)
	}

	viewer := view.NewViewer(*namespace, sparql.New(*endpoint), pm)
	session := viewer.NewSession(*namespace, nil)

	if *format != "page" {
		accept, ok := sparql.RawFormats[*format]
		if !ok {
			return fmt.Errorf("unknown format %v", *format)
		}
		uri, err := session.Resolve(args[0])
		if err != nil {
			return err
		}
		body, _, err := viewer.Client.DescribeAs(cmd.Context(), uri, accept)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(body)
		return err
	}

	page, err := session.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out, err := qjson.MarshalIndent(page, "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	fmt.Println()
	return nil
}
