package main

import "github.com/gtmctl/gtmctl/cmd"

// These can be set during build with -ldflags. An OAuth client baked in at
// build time keeps end users out of the Google Cloud console; the
// GTMCTL_CLIENT_ID and GTMCTL_CLIENT_SECRET environment variables override
// it at runtime.
var (
	version      = "dev"
	clientID     = ""
	clientSecret = ""
)

func main() {
	cmd.SetVersion(version)
	cmd.SetOAuthClient(clientID, clientSecret)
	cmd.Execute()
}
