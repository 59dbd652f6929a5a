package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/config"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/handler"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/notification"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/repository"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/service"
)

type App struct {
	Store   *service.RecordStore
	Reports *service.ReportEngine
	Menu    *handler.MenuHandler

	in     io.Reader
	out    io.Writer
	notify bool
}

type Option func(*App)

// WithIO replaces stdin/stdout for the menu.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

// WithoutNotifications skips the welcome email for records created by this app.
func WithoutNotifications() Option {
	return func(a *App) {
		a.notify = false
	}
}

func NewApp(opts ...Option) *App {
	a := &App{in: os.Stdin, out: os.Stdout, notify: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Log to stderr so log lines stay out of the menu output
	logger.InitLogging(os.Stderr, cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize dependencies
	repo := repository.NewCSVEmployeeRepository(cfg.DATA_FILE_PATH)

	var notifier domain.NotificationGateway
	if a.notify {
		notifier = newNotifier(ctx)
	}

	store, err := service.NewRecordStore(ctx, repo, notifier)
	if err != nil {
		return fmt.Errorf("failed to load employee records from %s: %w", cfg.DATA_FILE_PATH, err)
	}
	logger.InfoLog(ctx, "Loaded %d employee records from %s", store.Len(), cfg.DATA_FILE_PATH)

	a.Store = store
	a.Reports = service.NewReportEngine(store, cfg.REPORT_LAYOUT_PATH)
	a.Menu = handler.NewMenuHandler(a.Store, a.Reports, a.in, a.out, cfg.REPORT_EXPORT_PATH)
	return nil
}

func newNotifier(ctx context.Context) domain.NotificationGateway {
	cfg := config.DefaultEnvConfig

	var next domain.NotificationGateway = notification.NoopNotifier{}
	if cfg.SMTPEnabled() {
		next = notification.NewEmailNotifier(notification.SMTPConfig{
			Host:     cfg.SMTP_HOST,
			Port:     cfg.SMTP_PORT,
			Username: cfg.SMTP_USERNAME,
			Password: cfg.SMTP_PASSWORD,
			Sender:   cfg.SMTP_SENDER,
		})
	} else {
		logger.WarnLog(ctx, "SMTP credentials are not configured, confirmation emails are disabled")
	}
	return notification.NewDispatcher(next, cfg.NOTIFY_MAX_RETRIES, cfg.NOTIFY_BACKOFF)
}

// Run serves the menu until the operator exits or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Menu.Run(ctx); err != nil {
		logger.ErrorLog(ctx, "Final save failed", err)
		return err
	}
	return nil
}
