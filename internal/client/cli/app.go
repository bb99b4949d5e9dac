package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/confessio/confessio/internal/client/api"
	"github.com/confessio/confessio/internal/client/config"
	"github.com/confessio/confessio/internal/client/feed"
	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/client/notify"
	"github.com/confessio/confessio/internal/client/prefs"
	"github.com/confessio/confessio/internal/client/session"
	"github.com/confessio/confessio/internal/client/store"
	"github.com/confessio/confessio/internal/client/vault"
	"github.com/confessio/confessio/internal/logging"

	_ "modernc.org/sqlite"
)

// Service interfaces consumed by the REPL. Kept small so commands can be
// tested against fakes.

type sessionService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, info models.RegisterInfo) error
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, patch models.ProfileUpdate) error
	FetchProfile(ctx context.Context) error
	Profile() *models.Profile
	IsAuthenticated() bool
}

type notifyService interface {
	FetchNotifications(ctx context.Context) error
	FetchUnreadCount(ctx context.Context) error
	MarkAllAsRead(ctx context.Context) error
	Notifications() []models.Notification
	UnreadCount() int
	HasNewMessages() bool
}

type feedService interface {
	FetchMine(ctx context.Context) error
	Confessions() []models.Confession
}

type prefsService interface {
	Hydrate(ctx context.Context)
	SetThemeColor(ctx context.Context, color string) error
	SetSize(ctx context.Context, size prefs.FontSize) error
	ThemeColor() string
	Size() prefs.FontSize
}

type tokenPeek interface {
	AccessExpiry() (time.Time, bool)
}

type App struct {
	config  *config.Config
	session sessionService
	notify  notifyService
	feed    feedService
	prefs   prefsService
	tokens  tokenPeek
	reader  *bufio.Reader
	log     logging.Logger
	db      *sql.DB
}

// NewApp wires the whole client: local store, vault, API client, session
// controller, synchronizers and preferences.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	kv := store.NewKV(db)

	v := vault.New(kv, log)
	v.Hydrate(ctx)

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	apiClient := api.NewHTTPClient(c.BaseURL, c.RequestTimeout, v, metrics)

	sess := session.NewController(apiClient, v, log)
	nf := notify.New(apiClient, sess, log)
	fd := feed.New(apiClient, sess, log)

	// logout cascade clears the synchronized caches
	sess.OnLogout(nf.Reset)
	sess.OnLogout(fd.Reset)

	pf := prefs.New(kv, nil, log)
	pf.Hydrate(ctx)

	return &App{
		config:  c,
		session: sess,
		notify:  nf,
		feed:    fd,
		prefs:   pf,
		tokens:  v,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
		db:      db,
	}, nil
}

// Close releases the local database handle.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// Run starts the background unread watcher and enters the REPL.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartUnreadWatcher(ctx, a.config.UnreadPollInterval)

	a.Root(ctx)
}

// StartUnreadWatcher refreshes the unread counter on a schedule so the
// prompt badge stays current while the user is idle.
func (a *App) StartUnreadWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			callCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			if err := a.notify.FetchUnreadCount(callCtx); err != nil {
				a.log.Warn(ctx, "unread watcher tick failed", "error", err)
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
