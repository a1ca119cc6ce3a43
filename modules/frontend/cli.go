package frontend

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/spf13/cobra"
	"github.com/uriscope/uriscope/modules/cli"
	"github.com/uriscope/uriscope/modules/prefixes"
	"github.com/uriscope/uriscope/modules/settings"
	"github.com/uriscope/uriscope/modules/sparql"
	"github.com/uriscope/uriscope/modules/ui"
	"github.com/uriscope/uriscope/modules/view"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	Command = &cobra.Command{
		Use:   "serve [-options]",
		Short: "Launches the resource viewer web service in your browser",
	}

	bind        = Command.Flags().String("bind", "127.0.0.1:8080", "Address and port of webservice to bind to")
	endpoint    = Command.Flags().String("endpoint", "http://localhost:8890/sparql", "SPARQL endpoint to describe resources against")
	namespace   = Command.Flags().String("namespace", "", "Entity namespace; request paths resolve against it when it matches the page origin")
	epsglookup  = Command.Flags().String("epsglookup", "https://epsg.io", "Base URL for looking up proj4 definitions of unknown EPSG codes")
	noBrowser   = Command.Flags().Bool("nobrowser", false, "Don't launch browser after starting webservice")
	localHTML   = Command.Flags().StringSlice("localhtml", nil, "Override embedded HTML and use a local folders for webservice (for development)")
	certificate = Command.Flags().String("certificate", "", "Path to or complete certificate file in PEM format")
	privateKey  = Command.Flags().String("privatekey", "", "Path to or complete private key in PEM format")
	wsProfiling = Command.Flags().Bool("wsprofiling", false, "Expose pprof profiling endpoints on the web service")
)

func init() {
	cli.Root.AddCommand(Command)
	if Command.RunE == nil {
		Command.RunE = Execute
	}
	Command.Flags().Lookup("localhtml").Hidden = true
}

func Execute(cmd *cobra.Command, args []string) error {
	datapath := *cli.Datapath

	// Memory, GC and CPU settings
	memlimit.SetGoMemLimit(0.8)
	debug.SetGCPercent(35)

	maxprocs.Set(maxprocs.Logger(ui.Debug().Msgf))

	if *certificate != "" && *privateKey != "" {
		AddOption(WithCert(*certificate, *privateKey))
	}

	if *wsProfiling {
		AddOption(WithProfiling())
	}

	// allow debug runs to use local paths for html
	for _, localhtmlpath := range *localHTML {
		AddOption(WithLocalHTML(localhtmlpath))
	}

	if err := settings.SetPath(datapath); err != nil {
		ui.Warn().Msgf("Problem loading preferences: %v", err)
	}

	pm, err := prefixes.Load(filepath.Join(datapath, "prefixes.json"))
	if err != nil {
		ui.Warn().Msgf("Prefix table degraded: %v", err)
	}

	viewer := view.NewViewer(*namespace, sparql.New(*endpoint), pm)
	viewer.Geometry = newMapRenderer(*epsglookup)
	viewer.Graph = cytoRenderer{}

	ws := NewWebservice(viewer)

	if err := ws.Start(*bind); err != nil {
		return err
	}

	// Launch browser
	if !*noBrowser {
		var err error
		url := ws.protocol + "://" + *bind
		switch runtime.GOOS {
		case "linux":
			err = exec.Command("xdg-open", url).Start()
		case "windows":
			err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
		case "darwin":
			err = exec.Command("open", url).Start()
		default:
			err = fmt.Errorf("unsupported platform")
		}
		if err != nil {
			ui.Warn().Msgf("Problem launching browser: %v", err)
		}
	}

	// Wait for webservice to end
	<-ws.QuitChan()
	return nil
}
