package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/techhire/interview-assistant/internal/ai"
	"github.com/techhire/interview-assistant/internal/ai/gemini"
	"github.com/techhire/interview-assistant/internal/ai/openai"
	"github.com/techhire/interview-assistant/internal/interview"
	"github.com/techhire/interview-assistant/internal/logger"
	"github.com/techhire/interview-assistant/internal/secrets"
	"github.com/techhire/interview-assistant/internal/store"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("no-archive", false, "do not persist the session when it ends")

	viper.BindPFlag("storage.disabled", runCmd.Flags().Lookup("no-archive"))
}

// run drives one interview session on the terminal.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the interview-assistant", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	oracle, err := newOracle(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the ai generator", zap.Error(err))
	}

	machine := interview.NewMachine(oracle, interview.Config{
		MaxQuestions:       config.Interview.MaxQuestions,
		DuplicateThreshold: config.Interview.DuplicateThreshold,
		GenerationAttempts: config.Interview.GenerationAttempts,
		MaxLogLength:       config.AI.MaxLogLength,
	}, logger)

	sessionID := uuid.NewString()
	logger = withSession(logger, sessionID)

	session := machine.NewSession()

	fmt.Println(interview.GreetingMessage)

	prompt := promptui.Prompt{Label: "You"}

	for session.State != interview.StateCompleted {
		input, err := prompt.Run()
		if err != nil {
			// interrupt or closed stdin ends the session like an
			// exit command
			logger.Info("input closed, ending the session", zap.Error(err))
			machine.Process(ctx, session, "exit")
			break
		}

		fmt.Println()
		fmt.Println(machine.Process(ctx, session, input))
		fmt.Println()
	}

	if config.Storage.Disabled {
		logger.Info("session archiving disabled, exiting")
		return
	}

	if err := archiveSession(ctx, config.Storage, sessionID, session); err != nil {
		logger.Error("archiving the session", zap.Error(err))
		return
	}

	logger.Info("session archived",
		zap.String("candidate", session.Candidate.FullName),
		zap.Int("responses", len(session.History)),
	)
}

// withSession attaches the session id to every subsequent log entry.
func withSession(base *zap.Logger, sessionID string) *zap.Logger {
	return logger.WithFields(base, logger.StringFields(
		logger.StringField{Key: logger.FieldSession, Value: sessionID},
	)...)
}

// newOracle builds the configured text-generation backend.
func newOracle(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		logger.WithOracleFields(log, "gemini", generator.Model()).Info("ai generator ready")
		return generator, nil

	case "openai":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		generator, err := openai.NewGenerator(openai.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, err
		}

		logger.WithOracleFields(log, "openai", generator.Model()).Info("ai generator ready")
		return generator, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// archiveSession persists the finished session to the SQLite archive and the
// JSON dump directory.
func archiveSession(ctx context.Context, cfg *StorageConfig, sessionID string, session *interview.Session) error {
	status := store.StatusCompleted
	if session.Aborted || session.State != interview.StateCompleted {
		status = store.StatusIncomplete
	}

	rec := &store.Record{
		ID:        sessionID,
		Timestamp: time.Now().UTC(),
		Candidate: session.Candidate,
		Responses: session.History,
		Status:    status,
	}

	archive, err := store.Open(cfg.Path)
	if err != nil {
		return fmt.Errorf("opening the session archive: %w", err)
	}
	defer archive.Close()

	if err := archive.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving the session: %w", err)
	}

	if _, err := store.DumpToFile(cfg.DumpDir, rec); err != nil {
		return fmt.Errorf("dumping the session to file: %w", err)
	}

	return nil
}
