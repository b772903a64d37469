package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pegasus-trivia-service/internal/app"
	"pegasus-trivia-service/internal/config"
	"pegasus-trivia-service/internal/domain"
	"pegasus-trivia-service/internal/infra/memory"
	pgloader "pegasus-trivia-service/internal/infra/postgres"
	redisrepo "pegasus-trivia-service/internal/infra/redis"
	transport "pegasus-trivia-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3000"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(defaultBanks())
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Trivia.BankTTL, 10*time.Minute)
	var bankRepo app.QuestionRepository
	if redisClient != nil {
		bankRepo = redisrepo.NewQuestionRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewQuestionRepository(loader, bankTTL)
	}

	hub := transport.NewHub()
	registry := app.NewRegistry(hub)
	ledger := app.NewLedger()
	scheduler := app.NewClockScheduler(clockwork.NewRealClock())
	game := app.NewGame(bankRepo, ledger, hub, scheduler, app.GameConfig{
		BankID:        cfg.Trivia.Bank,
		RoundDuration: config.Seconds(cfg.Trivia.RoundSeconds, 10*time.Second),
		GraceDelay:    config.Seconds(cfg.Trivia.GraceSeconds, 5*time.Second),
	})
	wsHandler := transport.NewWSHandler(hub, registry, game)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting trivia service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// defaultBanks provides the built-in question set used when no Postgres
// backing store is configured.
func defaultBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"default": {
			ID: "default",
			Questions: []domain.Question{
				{Prompt: "What does the <a> tag represent in HTML?", Options: []string{"An article", "An abbreviation", "A hyperlink", "An accent"}, Answer: 2},
				{Prompt: "Which CSS property is used to make text bold?", Options: []string{"font-style", "font-weight", "text-decoration", "text-transform"}, Answer: 1},
				{Prompt: "What symbol is used to select an element by its ID in CSS?", Options: []string{". (dot)", "# (hash)", "$ (dollar)", "& (ampersand)"}, Answer: 1},
				{Prompt: "In JavaScript, what does `===` check for?", Options: []string{"Value only", "Reference only", "Value and type", "If a variable exists"}, Answer: 2},
				{Prompt: "Which `git` command is used to upload your local commits to GitHub?", Options: []string{"git upload", "git fetch", "git commit", "git push"}, Answer: 3},
				{Prompt: "What company originally developed the React library?", Options: []string{"Google", "Microsoft", "Facebook (Meta)", "Oracle"}, Answer: 2},
				{Prompt: "The 'This is Fine' meme features a dog in a room that is...?", Options: []string{"Flooding", "On fire", "Freezing", "Full of cats"}, Answer: 1},
				{Prompt: "What is the main purpose of an API?", Options: []string{"To style websites", "To allow applications to communicate", "To secure a database", "To animate elements"}, Answer: 1},
				{Prompt: "What does 'CSS' stand for?", Options: []string{"Cascading Style Sheets", "Creative Style System", "Computer Style Syntax", "Colorful Styling Sheets"}, Answer: 0},
				{Prompt: "In the 'Distracted Boyfriend' meme, what does the boyfriend's original partner usually represent?", Options: []string{"A new trend", "A fun distraction", "The responsible choice", "A past mistake"}, Answer: 2},
				{Prompt: "Which of these is a popular version control system?", Options: []string{"Docker", "Webpack", "Git", "Node.js"}, Answer: 2},
				{Prompt: "What does '404' mean in HTTP status codes?", Options: []string{"OK", "Server Error", "Redirect", "Not Found"}, Answer: 3},
				{Prompt: "The 'Stonks' meme character is typically associated with...?", Options: []string{"Good financial decisions", "Expert cooking skills", "Questionable financial decisions", "Athletic success"}, Answer: 2},
				{Prompt: "What does the `<img>` tag need in order to display an image?", Options: []string{"class attribute", "style attribute", "src attribute", "alt attribute"}, Answer: 2},
				{Prompt: "In VS Code, what is the default shortcut to open the command palette?", Options: []string{"Ctrl+P", "Ctrl+Shift+P", "Ctrl+Alt+P", "Ctrl+Space"}, Answer: 1},
				{Prompt: "Which of these is NOT a programming language?", Options: []string{"Python", "JavaScript", "HTML", "Java"}, Answer: 2},
				{Prompt: "What is the block-building game that was sold to Microsoft for $2.5 billion?", Options: []string{"Roblox", "Terraria", "Fortnite", "Minecraft"}, Answer: 3},
				{Prompt: "Which company's logo is a bitten apple?", Options: []string{"Samsung", "Microsoft", "Apple", "Google"}, Answer: 2},
				{Prompt: "What does 'NaN' stand for in JavaScript?", Options: []string{"No Action Needed", "Not a Number", "New Asset Name", "Null and Negated"}, Answer: 1},
				{Prompt: "What is the mascot of GitHub?", Options: []string{"The Octocat", "The GitGopher", "The CodeCat", "The HubLlama"}, Answer: 0},
			},
		},
	}
}
