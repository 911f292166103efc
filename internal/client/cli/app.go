package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/agritrack/agritrack-cli/internal/client/api"
	"github.com/agritrack/agritrack-cli/internal/client/config"
	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/services"
	"github.com/agritrack/agritrack-cli/internal/client/session"
	"github.com/agritrack/agritrack-cli/internal/client/stageform"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/agritrack/agritrack-cli/internal/logging"
)

// App ties the services together behind the REPL commands.
type App struct {
	config   *config.Config
	client   api.Client
	store    *session.Store
	auth     services.AuthService
	products services.ProductService
	farms    services.FarmService
	form     *stageform.Form
	log      logging.Logger

	sess *session.Session
	// current is the product last shown; replaced as a whole value after
	// every stage submission.
	current *models.Product

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	store, err := session.Open(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	apiClient := api.NewRESTClient(c.APIBaseURL)
	ps := services.NewProductService(apiClient, log)

	return &App{
		config:   c,
		client:   apiClient,
		store:    store,
		auth:     services.NewAuthService(apiClient, store, log),
		products: ps,
		farms:    services.NewFarmService(apiClient, log),
		form:     stageform.New(ps),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores any persisted session and enters the REPL. It blocks until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	sess, err := a.auth.Restore(ctx)
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		fmt.Fprintln(a.out, "Saved session expired, please log in again.")
	case err != nil:
		a.log.Warn(ctx, "session restore failed", "err", err)
	case sess != nil:
		a.sess = sess
		fmt.Fprintf(a.out, "Welcome back, %s!\n", sess.Username)
	}

	fmt.Fprintln(a.out, "AgriTrack CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "closing api client", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(context.Background(), "closing session store", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess != nil
}

func (a *App) getStatus() string {
	if a.sess == nil {
		return ""
	}
	s := a.sess.Username
	if a.sess.StageProfile != "" {
		s = s + " " + a.sess.StageProfile
	}
	return fmt.Sprintf("(%s) ", s)
}

// callCtx bounds one backend request with the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
