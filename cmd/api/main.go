package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskcraftify/pkg/translator"
)

const translationFolder = "pkg/translator/translation"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logger *zap.Logger

	root := &cobra.Command{
		Use:           "taskcraftify",
		Short:         "Optimistic task and project sync host",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = zap.NewProduction()
			if err != nil {
				return err
			}
			// Make zap available to packages that log through zap.L().
			zap.ReplaceGlobals(logger)

			translator.InitTranslator(translator.Config{
				TranslationFolder:  translationFolder,
				SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger == nil {
				return
			}
			if err := logger.Sync(); err != nil {
				zap.L().Debug("failed to sync logger", zap.Error(err))
			}
		},
	}

	root.AddCommand(newServeCmd(), newSnapshotCmd())
	return root
}
