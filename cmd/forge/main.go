package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/ability-forge/internal/clients/dnd5e"
	"github.com/KirkDiggler/ability-forge/internal/config"
	"github.com/KirkDiggler/ability-forge/internal/enhance"
	"github.com/KirkDiggler/ability-forge/internal/extraction"
	"github.com/KirkDiggler/ability-forge/internal/repositories/artifacts"
	"github.com/KirkDiggler/ability-forge/internal/semantic"
	"github.com/KirkDiggler/ability-forge/internal/services/converter"
	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

var (
	flagName    string
	flagFile    string
	flagSave    bool
	flagVerbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "forge",
		Short:         "Convert D&D ability text into automation artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagSave, "save", false, "persist artifacts to Redis")

	convertCmd := &cobra.Command{
		Use:   "convert [text]",
		Short: "Convert a single ability description",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVarP(&flagName, "name", "n", "", "explicit ability name")
	convertCmd.Flags().StringVarP(&flagFile, "file", "f", "", "read the ability text from a file")

	monsterCmd := &cobra.Command{
		Use:   "monster <key>",
		Short: "Fetch a monster from the dnd5e API and convert its actions",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonster,
	}

	batchCmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Convert every ability in a stat-block document",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	root.AddCommand(convertCmd, monsterCmd, batchCmd)
	return root
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newService(log *zap.Logger, withClient bool) (converter.Service, func(), error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}
	cfg := config.Load()

	builder, err := semantic.NewBuilder(&semantic.BuilderConfig{
		Registry: extraction.NewDefaultRegistry(log),
		Logger:   log,
	})
	if err != nil {
		return nil, nil, err
	}

	engine, err := synthesis.NewEngine(&synthesis.EngineConfig{Logger: log})
	if err != nil {
		return nil, nil, err
	}

	svcCfg := &converter.Config{
		Builder:      builder,
		Engine:       engine,
		Orchestrator: enhance.NewOrchestrator(&enhance.OrchestratorConfig{Logger: log}),
		Logger:       log,
	}

	cleanup := func() {}

	if withClient {
		client, err := dnd5e.New(&dnd5e.Config{
			HttpClient: &http.Client{Timeout: 30 * time.Second},
		})
		if err != nil {
			return nil, nil, err
		}
		svcCfg.DnD5eClient = client
	}

	if flagSave {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, falling back to in-memory store", zap.Error(err))
			svcCfg.Repository = artifacts.NewInMemory()
		} else {
			svcCfg.Repository = artifacts.NewRedis(redisClient)
			cleanup = func() {
				if err := redisClient.Close(); err != nil {
					log.Warn("failed to close redis connection", zap.Error(err))
				}
			}
		}
	}

	svc, err := converter.NewService(svcCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	if flagFile != "" {
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", flagFile, err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("provide ability text as an argument or via --file")
	}

	svc, cleanup, err := newService(log, false)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.Convert(cmd.Context(), &converter.Input{Text: text, Name: flagName})
	if err != nil {
		return err
	}
	return printResults(cmd, result)
}

func runMonster(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	svc, cleanup, err := newService(log, true)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := svc.ConvertMonster(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printResults(cmd, results...)
}

func runBatch(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	svc, cleanup, err := newService(log, false)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := svc.ConvertDocument(cmd.Context(), string(data))
	if err != nil {
		return err
	}
	return printResults(cmd, results...)
}

func printResults(cmd *cobra.Command, results ...*converter.Result) error {
	artifactsOut := make([]*synthesis.Artifact, 0, len(results))
	for _, r := range results {
		artifactsOut = append(artifactsOut, r.Artifact)
	}

	var out any = artifactsOut
	if len(artifactsOut) == 1 {
		out = artifactsOut[0]
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
