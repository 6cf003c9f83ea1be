package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/cmd/common"
	"github.com/flocx/flocx-market/cmd/marketd/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/textileio/cli"
	logging "github.com/textileio/go-log/v2"
)

var (
	daemonName = "marketd"
	log        = logging.Logger(daemonName)
	v          = viper.New()
)

func init() {
	flags := []cli.Flag{
		{Name: "http-addr", DefValue: ":8080", Description: "REST API listen address"},
		{Name: "postgres-uri", DefValue: "", Description: "PostgreSQL URI, the market is kept in memory if empty"},
		{Name: "token-secret", DefValue: "", Description: "HMAC secret of the scope bearer tokens"},
		{Name: "sweep-interval", DefValue: time.Minute, Description: "Interval between expiry sweeps"},
		{Name: "sweep-batch", DefValue: 100, Description: "Maximum entities of each kind expired per sweep"},
		{
			Name:        "resource-admins",
			DefValue:    "",
			Description: "Static resource ownership as p1=node1,node2;p2=node3, used when no Ironic URL is set",
		},
		{Name: "ironic-url", DefValue: "", Description: "Ironic API URL answering node ownership"},
		{Name: "ironic-token", DefValue: "", Description: "Keystone token for the Ironic API"},
		{Name: "gpubsub-project-id", DefValue: "", Description: "Google PubSub project id, events are only logged if empty"},
		{Name: "gpubsub-api-key", DefValue: "", Description: "Google PubSub API key"},
		{Name: "msgbroker-topic-prefix", DefValue: "", Description: "Topic prefix to use for msg broker topics"},
		{Name: "metrics-addr", DefValue: ":9090", Description: "Prometheus listen address"},
		{Name: "log-debug", DefValue: false, Description: "Enable debug level logging"},
		{Name: "log-json", DefValue: false, Description: "Enable structured logging"},
	}

	cli.ConfigureCLI(v, "MARKET", flags, rootCmd.Flags())

	tokenCmd.Flags().Bool("admin", false, "Issue an administrator token")
	tokenCmd.Flags().String("project", "", "Project id of a scoped token")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime, zero never expires")
	rootCmd.AddCommand(tokenCmd)
}

var rootCmd = &cobra.Command{
	Use:   daemonName,
	Short: "marketd keeps the bids, offers and contracts of a bare-metal marketplace",
	Long:  "marketd keeps the bids, offers and contracts of a bare-metal marketplace",
	PersistentPreRun: func(c *cobra.Command, args []string) {
		cli.CheckErrf("loading .env: %v", common.LoadDotEnv(".env"))
		cli.ExpandEnvVars(v, v.AllSettings())
		err := cli.ConfigureLogging(v, nil)
		cli.CheckErrf("setting log levels: %v", err)
	},
	Run: func(c *cobra.Command, args []string) {
		settings, err := cli.MarshalConfig(v, !v.GetBool("log-json"),
			"token-secret", "ironic-token", "gpubsub-api-key", "postgres-uri")
		cli.CheckErr(err)
		log.Infof("loaded config: %s", string(settings))

		if err := common.SetupInstrumentation(v.GetString("metrics-addr")); err != nil {
			log.Fatalf("booting instrumentation: %s", err)
		}

		config := service.Config{
			HTTPListenAddr: v.GetString("http-addr"),
			TokenSecret:    v.GetString("token-secret"),

			PostgresURI: v.GetString("postgres-uri"),

			SweepInterval: v.GetDuration("sweep-interval"),
			SweepBatch:    v.GetInt("sweep-batch"),

			ResourceAdmins: strings.Split(v.GetString("resource-admins"), ";"),
			IronicURL:      v.GetString("ironic-url"),
			IronicToken:    v.GetString("ironic-token"),

			GPubsubProjectID:     v.GetString("gpubsub-project-id"),
			GPubsubAPIKey:        v.GetString("gpubsub-api-key"),
			MsgBrokerTopicPrefix: v.GetString("msgbroker-topic-prefix"),
		}
		serv, err := service.New(config)
		cli.CheckErr(err)

		log.Info("Listening to requests...")

		cli.HandleInterrupt(func() {
			if err := serv.Close(); err != nil {
				log.Errorf("closing service: %s", err)
			}
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issues a scope bearer token signed with MARKET_TOKEN_SECRET",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		admin, err := c.Flags().GetBool("admin")
		cli.CheckErr(err)
		project, err := c.Flags().GetString("project")
		cli.CheckErr(err)
		ttl, err := c.Flags().GetDuration("ttl")
		cli.CheckErr(err)

		tokens, err := auth.NewTokens(v.GetString("token-secret"))
		cli.CheckErr(err)
		s := auth.Project(project)
		if admin {
			s = auth.Admin()
		}
		tok, err := tokens.Issue(s, ttl)
		cli.CheckErr(err)
		fmt.Println(tok)
	},
}

func main() {
	cli.CheckErr(rootCmd.Execute())
}
