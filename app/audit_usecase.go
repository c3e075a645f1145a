package app

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baseline-tools/bscan/domain"
	"github.com/baseline-tools/bscan/internal/analyzer"
	"github.com/baseline-tools/bscan/internal/constants"
	"github.com/baseline-tools/bscan/internal/detector"
	"github.com/baseline-tools/bscan/internal/reporter"
	"github.com/baseline-tools/bscan/internal/rules"
	"github.com/baseline-tools/bscan/internal/validate"
	"github.com/baseline-tools/bscan/internal/walker"
)

// AuditConfig holds per-run options for the audit use case
type AuditConfig struct {
	// Root is the project directory to scan
	Root string

	// Target is the baseline profile to score against
	Target string

	// MaxFiles bounds the scan; <= 0 uses the default
	MaxFiles int

	// UseGitignore additionally honors the project root .gitignore
	UseGitignore bool

	// ExportPath, when set, writes the report as JSON after the run
	ExportPath string
}

// DefaultAuditConfig returns the default audit options
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Target:   constants.DefaultTarget,
		MaxFiles: constants.DefaultMaxFiles,
	}
}

// AuditResult holds the artifacts of one completed audit run
type AuditResult struct {
	Report    *domain.Report
	Charts    *domain.ChartData
	Metrics   *domain.Metrics
	Summary   string
	Truncated bool
	Warnings  []string
	Duration  time.Duration
}

// AuditUseCase orchestrates a full project audit: file discovery, parallel
// feature detection, bounded status resolution, scoring and reporting.
type AuditUseCase struct {
	rules    *rules.Set
	status   domain.StatusService
	targets  analyzer.TargetTable
	reporter *reporter.Reporter
	store    *ReportStore
	exporter domain.ReportExporter
	progress domain.ProgressManager
}

// NewAuditUseCase creates an audit use case. The status service is shared
// across runs so its cache persists; its transport is released after each
// run's resolution phase.
func NewAuditUseCase(
	ruleSet *rules.Set,
	status domain.StatusService,
	targets analyzer.TargetTable,
	store *ReportStore,
	exporter domain.ReportExporter,
	progress domain.ProgressManager,
) *AuditUseCase {
	if progress == nil {
		progress = &noProgress{}
	}
	return &AuditUseCase{
		rules:    ruleSet,
		status:   status,
		targets:  targets,
		reporter: reporter.New(),
		store:    store,
		exporter: exporter,
		progress: progress,
	}
}

// Execute runs one complete audit. Only input validation can fail it;
// everything downstream degrades with warnings instead of aborting.
func (uc *AuditUseCase) Execute(ctx context.Context, cfg AuditConfig) (*AuditResult, error) {
	start := time.Now()

	if err := validate.ProjectPath(cfg.Root); err != nil {
		return nil, err
	}
	target, err := validate.Target(cfg.Target)
	if err != nil {
		return nil, err
	}
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = constants.DefaultMaxFiles
	}
	if maxFiles, err = validate.MaxFiles(maxFiles); err != nil {
		return nil, err
	}

	result := &AuditResult{}
	var warnMu sync.Mutex
	warnf := func(format string, args ...interface{}) {
		warnMu.Lock()
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
		warnMu.Unlock()
	}

	// Phase 1: file discovery
	w := walker.New(walker.Options{
		MaxFiles:     maxFiles,
		UseGitignore: cfg.UseGitignore,
		Warnf:        warnf,
	})
	files, truncated := w.Scan(cfg.Root)
	result.Truncated = truncated
	if len(files) == 0 {
		return nil, domain.NewValidationError("no supported files found to audit", nil)
	}

	// Phase 2: parallel detection, merged per feature id under a lock
	aggregates := uc.detectAll(ctx, cfg.Root, files, warnf)

	// Phase 3: status resolution, one task per distinct feature, bounded by
	// the client's concurrency gate; results correlate by key. The transport
	// is released after the phase on every exit path.
	uc.resolveStatuses(ctx, aggregates)

	// Phase 4: scoring and report construction
	an := analyzer.New(target, uc.targets, warnf)
	metrics := an.Analyze(aggregates)
	report := uc.reporter.FormatReport(aggregates, metrics, len(files))
	charts := uc.reporter.FormatCharts(metrics, aggregates)
	summary := uc.reporter.FormatSummary(metrics, aggregates)

	if uc.store != nil {
		uc.store.Set(report, charts)
	}

	result.Report = report
	result.Charts = charts
	result.Metrics = metrics
	result.Summary = summary
	result.Duration = time.Since(start)

	if cfg.ExportPath != "" && uc.exporter != nil {
		if err := uc.exporter.Export(report, cfg.ExportPath); err != nil {
			warnf("export to %s failed: %v", cfg.ExportPath, err)
		}
	}

	return result, nil
}

// detectAll scans every file concurrently and accumulates feature hits into
// aggregates keyed by feature id
func (uc *AuditUseCase) detectAll(ctx context.Context, root string, files []domain.FileRecord, warnf func(string, ...interface{})) map[string]*domain.FeatureAggregate {
	det := detector.New(uc.rules, warnf)
	aggregates := make(map[string]*domain.FeatureAggregate)

	task := uc.progress.StartTask("scanning files", len(files))
	defer task.Complete()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		file := file
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			hits := det.Detect(file.AbsPath)
			task.Increment(1)
			if len(hits) == 0 {
				return nil
			}

			mu.Lock()
			for id, count := range hits {
				agg, ok := aggregates[id]
				if !ok {
					agg = &domain.FeatureAggregate{ID: id}
					aggregates[id] = agg
				}
				agg.TotalHits += count
				agg.Files = append(agg.Files, domain.FileHits{Path: file.RelPath, Hits: count})
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Completion order is nondeterministic; fix each file list so report
	// truncation and tie-breaks are reproducible
	for _, agg := range aggregates {
		files := agg.Files
		sort.SliceStable(files, func(i, j int) bool {
			if files[i].Hits != files[j].Hits {
				return files[i].Hits > files[j].Hits
			}
			return files[i].Path < files[j].Path
		})
	}

	return aggregates
}

// resolveStatuses attaches a status record to every aggregate. Each feature's
// resolution is isolated: the status service never fails, so no feature can
// abort the phase for the others.
func (uc *AuditUseCase) resolveStatuses(ctx context.Context, aggregates map[string]*domain.FeatureAggregate) {
	defer uc.status.Close()

	task := uc.progress.StartTask("resolving feature status", len(aggregates))
	defer task.Complete()

	var wg sync.WaitGroup
	for id, agg := range aggregates {
		id, agg := id, agg
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Status = uc.status.GetStatus(ctx, id)
			task.Increment(1)
		}()
	}
	wg.Wait()
}

// noProgress is the inert default when no progress manager is supplied
type noProgress struct{}

func (noProgress) StartTask(string, int) domain.TaskProgress { return noTask{} }
func (noProgress) IsInteractive() bool                       { return false }
func (noProgress) Close()                                    {}

type noTask struct{}

func (noTask) Increment(int)   {}
func (noTask) Describe(string) {}
func (noTask) Complete()       {}
