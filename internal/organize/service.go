package organize

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// ScanTaskName is the scheduler name of the watch-folder scan.
const ScanTaskName = "auto-organize"

// Dependencies are the collaborators the service is built from. Repository
// may be nil. The service takes ownership of Repository and closes it in
// Close; every other collaborator is borrowed.
type Dependencies struct {
	Repository ports.FileOrganizationRepository
	Scheduler  ports.TaskScheduler
	Logs       ports.LoggerFactory
	Monitor    ports.LibraryMonitor
	Index      ports.LibraryIndex
	Config     ports.ServerConfig
	FS         ports.FileSystem
	Providers  ports.ProviderManager
}

// Service is the long-lived auto-organize service.
type Service struct {
	repo      ports.FileOrganizationRepository
	scheduler ports.TaskScheduler
	monitor   ports.LibraryMonitor
	index     ports.LibraryIndex
	config    ports.ServerConfig
	fs        ports.FileSystem
	providers ports.ProviderManager
	logger    log.Logger

	now func() time.Time

	closeOnce sync.Once
	closeErr  error
}

// New assembles a service. It never fails: a nil repository yields a
// degraded service, and a failed task registration is only logged.
func New(deps Dependencies) *Service {
	logger := log.Logger(log.NewNoopLogger())
	if deps.Logs != nil {
		logger = deps.Logs.Named("AutoOrganize")
	}

	s := &Service{
		repo:      deps.Repository,
		scheduler: deps.Scheduler,
		monitor:   deps.Monitor,
		index:     deps.Index,
		config:    deps.Config,
		fs:        deps.FS,
		providers: deps.Providers,
		logger:    logger,
		now:       time.Now,
	}

	if s.repo == nil {
		logger.Warn("auto-organize service running without a repository")
	}

	if s.scheduler != nil {
		interval := s.options().ScanInterval
		if err := s.scheduler.Register(ScanTaskName, interval, s.Scan); err != nil {
			logger.Warn("failed to register scan task", log.Err(err))
		}
	}

	return s
}

// Available reports whether the service can persist anything.
func (s *Service) Available() bool {
	return s.repo != nil
}

// Close closes the repository the service was built with. Safe to call twice.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		if s.repo != nil {
			s.closeErr = s.repo.Close()
		}
	})
	return s.closeErr
}

// GetResults returns a page of organization results, newest first.
func (s *Service) GetResults(ctx context.Context, q domain.ResultQuery) (domain.QueryResult[domain.FileOrganizationResult], error) {
	if s.repo == nil {
		return domain.QueryResult[domain.FileOrganizationResult]{Items: []domain.FileOrganizationResult{}}, nil
	}
	return s.repo.GetResults(ctx, q)
}

// GetResult returns one organization result.
func (s *Service) GetResult(ctx context.Context, id string) (domain.FileOrganizationResult, error) {
	if s.repo == nil {
		return domain.FileOrganizationResult{}, domain.ErrNotFound
	}
	return s.repo.GetResult(ctx, id)
}

// SaveResult stores a result, assigning an ID and date when missing.
func (s *Service) SaveResult(ctx context.Context, res domain.FileOrganizationResult) (domain.FileOrganizationResult, error) {
	if s.repo == nil {
		return res, domain.ErrRepositoryUnavailable
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Date.IsZero() {
		res.Date = s.now()
	}
	if err := s.repo.SaveResult(ctx, res); err != nil {
		return res, fmt.Errorf("failed to save result: %w", err)
	}
	return res, nil
}

// DeleteResult removes a result from the history.
func (s *Service) DeleteResult(ctx context.Context, id string) error {
	if s.repo == nil {
		return domain.ErrRepositoryUnavailable
	}
	return s.repo.DeleteResult(ctx, id)
}

// ClearLog removes the whole organization history.
func (s *Service) ClearLog(ctx context.Context) error {
	if s.repo == nil {
		return domain.ErrRepositoryUnavailable
	}
	if err := s.repo.DeleteAllResults(ctx); err != nil {
		return fmt.Errorf("failed to clear log: %w", err)
	}
	s.logger.Info("organization log cleared")
	return nil
}

// GetSmartMatchInfos returns a page of smart-match entries.
func (s *Service) GetSmartMatchInfos(ctx context.Context, q domain.ResultQuery) (domain.QueryResult[domain.SmartMatchResult], error) {
	if s.repo == nil {
		return domain.QueryResult[domain.SmartMatchResult]{Items: []domain.SmartMatchResult{}}, nil
	}
	return s.repo.GetSmartMatch(ctx, q)
}

// SaveSmartMatch stores a smart-match entry, assigning an ID when missing.
func (s *Service) SaveSmartMatch(ctx context.Context, m domain.SmartMatchResult) error {
	if s.repo == nil {
		return domain.ErrRepositoryUnavailable
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.OrganizerType == "" {
		m.OrganizerType = domain.OrganizerUnknown
	}
	return s.repo.SaveSmartMatch(ctx, m)
}

// DeleteSmartMatchEntry removes matchString from the entry id, or the whole
// entry when matchString is empty.
func (s *Service) DeleteSmartMatchEntry(ctx context.Context, id, matchString string) error {
	if s.repo == nil {
		return domain.ErrRepositoryUnavailable
	}
	if matchString == "" {
		return s.repo.DeleteSmartMatch(ctx, id)
	}
	return s.repo.DeleteSmartMatchString(ctx, id, matchString)
}

// QueueScan asks the scheduler to run the scan task now.
func (s *Service) QueueScan() error {
	if s.scheduler == nil {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTask, ScanTaskName)
	}
	return s.scheduler.Queue(ScanTaskName)
}

func (s *Service) options() domain.AutoOrganizeOptions {
	if s.config == nil {
		return domain.AutoOrganizeOptions{}
	}
	return s.config.AutoOrganizeOptions()
}

func (s *Service) beginChange(path string) func() {
	if s.monitor == nil {
		return func() {}
	}
	s.monitor.ReportChangeBeginning(path)
	return func() { s.monitor.ReportChangeComplete(path) }
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
