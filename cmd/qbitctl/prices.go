package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	awsclient "qbit-backend/internal/common/aws"
	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/config"
	"qbit-backend/internal/services/pricemonitor"
	"qbit-backend/internal/services/search"
)

func init() {
	var (
		queries  []string
		minPrice float64
		maxPrice float64
		out      string
		upload   bool
	)
	exportCmd := &cobra.Command{
		Use:   "price-export",
		Short: "Scan shopping results and write them to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := cliLogger(cfg)

			searchCfg := search.DefaultConfig()
			searchCfg.BaseURL = cfg.APIs.Serp.BaseURL
			searchCfg.APIKey = cfg.APIs.Serp.APIKey
			searchCfg.Geo = cfg.APIs.Serp.Geo
			searchCfg.Language = cfg.APIs.Serp.Language
			searchCfg.Timeout = config.GetDuration(cfg.APIs.Serp.Timeout)
			searcher, err := search.NewService(search.ServiceDependencies{Logger: log}, searchCfg)
			if err != nil {
				return err
			}

			deps := pricemonitor.ServiceDependencies{
				Logger:   log,
				Clock:    clock.Real{},
				Searcher: searcher,
			}
			if upload {
				bucket := cfg.Integrations.AWS.S3.Bucket
				if bucket == "" {
					return fmt.Errorf("--upload needs integrations.aws.s3.bucket")
				}
				awsCfg, err := awsclient.LoadConfig(cmd.Context(), awsclient.Settings{
					Region:          cfg.Integrations.AWS.Region,
					AccessKeyID:     cfg.Integrations.AWS.AccessKeyID,
					SecretAccessKey: cfg.Integrations.AWS.SecretAccessKey,
				})
				if err != nil {
					return err
				}
				deps.Uploader = awsclient.NewS3Client(awsCfg, bucket, cfg.Integrations.AWS.S3.Endpoint)
			}

			pmCfg := pricemonitor.DefaultConfig()
			pmCfg.ExportDir = cfg.PriceMonitor.ExportDir
			if prefix := cfg.Integrations.AWS.S3.Prefix; prefix != "" {
				pmCfg.S3Prefix = prefix
			}
			svc := pricemonitor.NewService(deps, pmCfg)

			input := pricemonitor.ScanInput{Queries: queries}
			if cmd.Flags().Changed("min") {
				input.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max") {
				input.MaxPrice = &maxPrice
			}

			items := svc.Scan(cmd.Context(), input.Queries, input.Range())
			path, err := svc.ExportCSV(items, out)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "%d items written to %s\n", len(items), path)

			if upload {
				location, err := svc.UploadExport(cmd.Context(), path, strings.Join(queries, " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(os.Stdout, "uploaded to %s\n", location)
			}
			return nil
		},
	}
	exportCmd.Flags().StringSliceVarP(&queries, "query", "q", nil, "Search query (repeatable)")
	exportCmd.Flags().Float64Var(&minPrice, "min", 0, "Minimum price")
	exportCmd.Flags().Float64Var(&maxPrice, "max", 0, "Maximum price")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to a timestamped name)")
	exportCmd.Flags().BoolVar(&upload, "upload", false, "Upload the export to S3")
	_ = exportCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(exportCmd)
}
