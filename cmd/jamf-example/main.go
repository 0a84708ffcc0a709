// cmd/jamf-example/main.go
// Small CLI exercising the client against a live server: list the
// synthesized operations, describe one, or call one.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thedzy/jamf-classes/httpclient"
	"github.com/thedzy/jamf-classes/operations"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the connection flags shared by every subcommand.
type rootOptions struct {
	configFile     string
	baseURL        string
	username       string
	password       string
	api            string
	timeoutSeconds int
	insecure       bool
	hideDeprecated bool
	acceptFormat   string
	schemaFile     string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "jamf-example",
		Short:        "Explore and call a Jamf server through its published schema",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "INI configuration file")
	flags.StringVar(&opts.baseURL, "base-url", "", "server address, e.g. https://instance.jamfcloud.com")
	flags.StringVar(&opts.username, "username", "", "API username")
	flags.StringVar(&opts.password, "password", "", "API password")
	flags.StringVar(&opts.api, "api", "universal", "API family: classic or universal")
	flags.IntVar(&opts.timeoutSeconds, "timeout", 0, "request timeout in seconds")
	flags.BoolVar(&opts.insecure, "insecure", false, "skip TLS certificate verification")
	flags.BoolVar(&opts.hideDeprecated, "hide-deprecated", false, "exclude deprecated endpoints")
	flags.StringVar(&opts.acceptFormat, "accept-format", "", "classic API response format: json or xml")
	flags.StringVar(&opts.schemaFile, "schema-file", "", "read the schema from a local file instead of the server")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warning, error or none")

	cmd.AddCommand(newMethodsCmd(opts))
	cmd.AddCommand(newDescribeCmd(opts))
	cmd.AddCommand(newCallCmd(opts))

	return cmd
}

// clientConfig assembles the effective config: file, then environment, then
// flags, flags winning.
func (o *rootOptions) clientConfig() (httpclient.ClientConfig, error) {
	config := &httpclient.ClientConfig{}
	if o.configFile != "" {
		loaded, err := httpclient.LoadConfigFromFile(o.configFile)
		if err != nil {
			return httpclient.ClientConfig{}, err
		}
		config = loaded
	}
	config = httpclient.LoadConfigFromEnv(config)

	if o.baseURL != "" {
		config.BaseURL = o.baseURL
	}
	if o.username != "" {
		config.Username = o.username
	}
	if o.password != "" {
		config.Password = o.password
	}
	if o.timeoutSeconds > 0 {
		config.Timeout = time.Duration(o.timeoutSeconds) * time.Second
	}
	if o.insecure {
		config.InsecureSkipVerify = true
	}
	if o.hideDeprecated {
		config.HideDeprecated = true
	}
	if o.acceptFormat != "" {
		config.AcceptFormat = o.acceptFormat
	}
	if o.schemaFile != "" {
		config.SchemaFile = o.schemaFile
	}
	if o.logLevel != "" {
		config.LogLevel = o.logLevel
	}

	return *config, nil
}

// withClient builds the selected family's client, runs fn and closes it.
func (o *rootOptions) withClient(fn func(*httpclient.Client) error) error {
	config, err := o.clientConfig()
	if err != nil {
		return err
	}

	switch o.api {
	case "classic":
		return httpclient.WithClassicClient(config, fn)
	case "universal", "uapi":
		return httpclient.WithUniversalClient(config, fn)
	default:
		return fmt.Errorf("unknown API family %q, want classic or universal", o.api)
	}
}

func newMethodsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods [filter]",
		Short: "List the operations the server's schema provides",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return opts.withClient(func(client *httpclient.Client) error {
				for _, name := range client.Operations() {
					if filter == "" || strings.Contains(name, filter) {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
				}
				return nil
			})
		},
	}
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <operation>",
		Short: "Show an operation's summary, path and parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(func(client *httpclient.Client) error {
				desc, ok := client.Describe(args[0])
				if !ok {
					return fmt.Errorf("unknown operation: %s", args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), desc)
				return nil
			})
		},
	}
}

func newCallCmd(opts *rootOptions) *cobra.Command {
	var pathParams []string
	var queryParams []string
	var body string

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Call an operation and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := operations.Params{
				Path:  make(map[string]string),
				Query: make(map[string]string),
			}
			if err := fillParams(params.Path, pathParams); err != nil {
				return err
			}
			if err := fillParams(params.Query, queryParams); err != nil {
				return err
			}
			if body != "" {
				payload, err := resolveBody(body)
				if err != nil {
					return err
				}
				params.Body = payload
			}

			return opts.withClient(func(client *httpclient.Client) error {
				env, err := client.Invoke(args[0], params)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\n", env.HTTPCode(), env.URL())
				if !env.Success() {
					fmt.Fprintln(cmd.OutOrStdout(), env.Err())
					return fmt.Errorf("request failed with status %d", env.HTTPCode())
				}
				fmt.Fprintln(cmd.OutOrStdout(), env.RawBody())
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&pathParams, "path", nil, "path parameter as name=value, repeatable")
	cmd.Flags().StringArrayVar(&queryParams, "query", nil, "query parameter as name=value, repeatable")
	cmd.Flags().StringVar(&body, "body", "", "request body, or @file to read from a file")

	return cmd
}

// fillParams parses repeated name=value flags into a parameter map.
func fillParams(target map[string]string, pairs []string) error {
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return fmt.Errorf("invalid parameter %q, want name=value", pair)
		}
		target[name] = value
	}
	return nil
}

// resolveBody returns the literal body, or the file contents for @file.
func resolveBody(body string) (string, error) {
	if !strings.HasPrefix(body, "@") {
		return body, nil
	}
	raw, err := os.ReadFile(strings.TrimPrefix(body, "@"))
	if err != nil {
		return "", fmt.Errorf("reading body file: %w", err)
	}
	return string(raw), nil
}
