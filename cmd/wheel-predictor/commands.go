package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	dto "wheel_predictor/internal/api/dto/wheel"
	"wheel_predictor/internal/app"
	"wheel_predictor/internal/config/env"
	"wheel_predictor/internal/converter"
	"wheel_predictor/internal/logger"
	"wheel_predictor/internal/metrics"
	"wheel_predictor/internal/model"
	"wheel_predictor/internal/repository/memory_repo"
	"wheel_predictor/internal/service/wheel"
	"wheel_predictor/pkg/pass"
)

var (
	replayFile     string
	replayConfig   string
	replaySnapshot string

	rootCmd = &cobra.Command{
		Use:          "wheel-predictor",
		Short:        "Прогноз исходов колеса Crazy Time",
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер (настройки из .env и config.yaml)",
		RunE:  runServe,
	}

	replayCmd = &cobra.Command{
		Use:   "replay",
		Short: "Прогнать сохраненную историю через движок и вывести анализ",
		Long: `Файл содержит символы (1, 2, 5, 10, CT, P, H, C или их названия)
от новых к старым, через запятую, пробел или с новой строки.
Названия из нескольких слов ("Crazy Time") отделяются запятой или переводом строки.
Состояние не сохраняется, хранилище не используется.`,
		RunE: runReplay,
	}

	hashPasswordCmd = &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Получить bcrypt хэш для ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := pass.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
)

func init() {
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "", "файл с историей (\"-\" - stdin)")
	replayCmd.Flags().StringVar(&replayConfig, "config", "config.yaml", "yaml с секцией engine")
	replayCmd.Flags().StringVar(&replaySnapshot, "snapshot-out", "", "куда записать снимок состояния после прогона")
	_ = replayCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd, replayCmd, hashPasswordCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.NewApp().Run(ctx)
}

func runReplay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		data []byte
		err  error
	)
	if replayFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(replayFile)
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	outcomes, err := converter.ToOutcomes(dto.BatchRequest{Results: splitHistory(string(data))})
	if err != nil {
		return err
	}

	cfg, err := env.NewEngineConfigFromYAML(replayConfig)
	if err != nil {
		return err
	}

	repo := memory_repo.NewRepository()
	serv := wheel.NewWheelService(
		cfg,
		repo,
		repo,
		memory_repo.NoopManager{},
		metrics.New(prometheus.NewRegistry()),
		logger.New("warn"),
	)

	res, err := serv.Reconcile(ctx, outcomes, model.SourceReplay)
	if err != nil {
		return err
	}

	if len(replaySnapshot) != 0 {
		snapshot, err := serv.Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(replaySnapshot, snapshot, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(converter.ToBatchResponse(res))
}

// splitHistory режет текст на элементы по запятым, точкам с запятой и переводам строк.
// Элемент, который не распознается целиком ("1 2 5"), дополнительно делится по пробелам
func splitHistory(text string) []string {
	var out []string
	pieces := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if len(piece) == 0 || strings.HasPrefix(piece, "#") {
			continue
		}
		if _, err := model.LookupOutcome(piece); err == nil {
			out = append(out, piece)
			continue
		}
		out = append(out, strings.Fields(piece)...)
	}
	return out
}
