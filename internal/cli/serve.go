package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/datacanvas/pkg/cache"
	"github.com/matzehuels/datacanvas/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Serve exposes the render pipeline over HTTP:

  GET  /healthz              build info
  GET  /v1/sample            the built-in sample records
  POST /v1/render            JSON envelope with every requested artifact
  POST /v1/render/{format}   the raw artifact for one format

Artifacts are cached in Redis when [cache] redis_addr is configured and
reachable, and in the file cache otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner := c.newServerRunner(ctx, cfg)
			defer runner.Close()

			c.out.info("Serving datacanvas API")
			c.out.keyValue("listen", cfg.Server.Addr)
			c.out.keyValue("cache", cacheKind(runner.Cache))
			return server.New(runner, c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func cacheKind(c cache.Cache) string {
	switch c := c.(type) {
	case *cache.RedisCache:
		return "redis"
	case *cache.FileCache:
		return "file " + c.Dir()
	}
	return "disabled"
}
