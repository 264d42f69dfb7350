package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gtmctl/gtmctl/internal/auth"
	"github.com/gtmctl/gtmctl/internal/config"
	"github.com/gtmctl/gtmctl/internal/logging"
)

// Environment overrides for the OAuth client baked in at build time.
const (
	envClientID     = "GTMCTL_CLIENT_ID"
	envClientSecret = "GTMCTL_CLIENT_SECRET"
)

var (
	version      string
	clientID     string
	clientSecret string

	verbose      bool
	noColor      bool
	outputFormat string

	logger    *logging.Logger
	flow      *auth.Flow
	providers *auth.Providers
	methods   *auth.MethodStore
	factory   *auth.ClientFactory
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gtmctl",
	Short: "Google Tag Manager CLI",
	Long: `gtmctl manages Google Tag Manager accounts, containers, workspaces and
their resources from the command line.

Authentication runs through 'gtmctl auth login': the default is a browser
OAuth flow, with service account keys (--service-account) and application
default credentials (--adc) as alternatives for automation. A service
account key referenced by the GTMCTL_SERVICE_ACCOUNT_KEY environment
variable takes precedence over any saved login.

Resources follow the Tag Manager hierarchy. Commands address a resource
with the --account/-a, --container/-c and --workspace/-w scope flags plus
a positional ID, so listing the tags of a workspace looks like:

  gtmctl tags list -a 6000000 -c 7000000 -w 12

Create and update commands read the resource body as JSON from --file/-f,
where '-' means stdin. Results print as a table on terminals and as JSON
when piped; --output/-o forces table, json or yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = logging.NewLogger(verbose, !noColor)
		initAuth()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version reported by the version command and compared
// by selfupdate.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// SetOAuthClient installs the OAuth client credentials this binary
// authenticates with. Both values are injected at build time.
func SetOAuthClient(id, secret string) {
	clientID = id
	clientSecret = secret
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored log output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json or yaml (default: table on terminals, json otherwise)")

	rootCmd.AddCommand(newSelfUpdateCmd())
}

// initAuth wires the credential stores, the OAuth flow, the alternate
// provider chain and the client factory. Construction does no I/O; files
// are only touched once a command resolves a token.
func initAuth() {
	dir := config.Dir()
	store := auth.NewCredentialStore(dir)
	methods = auth.NewMethodStore(dir)

	id := os.Getenv(envClientID)
	if id == "" {
		id = clientID
	}
	secret := os.Getenv(envClientSecret)
	if secret == "" {
		secret = clientSecret
	}

	flow = auth.NewFlow(auth.FlowConfig{
		Store:        store,
		Logger:       logger,
		ClientID:     id,
		ClientSecret: secret,
		Scopes:       auth.Scopes(),
	})
	providers = auth.NewProviders(methods, logger, auth.Scopes())
	factory = auth.NewClientFactory(flow, providers, logger)
}

// setupSignalHandler cancels the command context on SIGINT/SIGTERM so
// in-flight API calls and the login listener shut down cleanly.
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
}
