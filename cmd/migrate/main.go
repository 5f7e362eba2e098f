package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/internal/repository"
	"github.com/noah-isme/course-scheduler/internal/service"
	"github.com/noah-isme/course-scheduler/pkg/config"
	"github.com/noah-isme/course-scheduler/pkg/logger"
	"github.com/noah-isme/course-scheduler/pkg/storage"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitPartial = 2
)

type options struct {
	assumeYes bool
	overwrite bool
	dryRun    bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.assumeYes, "yes", false, "Skip the confirmation prompt")
	flag.BoolVar(&opts.overwrite, "overwrite", false, "Delete courses already in the database before copying")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Only report what would be migrated")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logr, opts, os.Stdin, os.Stdout)
	stop()
	_ = logr.Sync()
	os.Exit(code)
}

// run performs the migration and returns the process exit code. Every store it
// opens is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, opts options, in io.Reader, out io.Writer) int {
	files, err := storage.NewLocalStorage(cfg.Storage.DataDir)
	if err != nil {
		logr.Error("failed to open data directory", zap.Error(err))
		return exitFailed
	}
	if !files.Exists(cfg.Storage.DataFile) {
		fmt.Fprintf(out, "No data file at %s, nothing to migrate\n", files.Path(cfg.Storage.DataFile))
		return exitOK
	}

	sourceCfg := *cfg
	sourceCfg.Storage.Backend = config.BackendFile
	source, closeSource, err := repository.Open(ctx, sourceCfg, logr)
	if err != nil {
		logr.Error("failed to open file store", zap.Error(err))
		return exitFailed
	}
	defer closeSource() //nolint:errcheck

	targetCfg := *cfg
	targetCfg.Storage.Backend = config.BackendPostgres
	target, closeTarget, err := repository.Open(ctx, targetCfg, logr)
	if err != nil {
		logr.Error("failed to open database", zap.Error(err))
		return exitFailed
	}
	defer closeTarget() //nolint:errcheck

	migrator := service.NewMigrationService(source, target, logr.Named("migrate"))
	plan, err := migrator.Plan(ctx)
	if err != nil {
		logr.Error("failed to inspect stores", zap.Error(err))
		return exitFailed
	}
	fmt.Fprintf(out, "Found %d course(s) with %d assignment(s) in %s/%s\n",
		plan.SourceCourses, plan.SourceAssignments, cfg.Storage.DataDir, cfg.Storage.DataFile)
	if plan.TargetExisting > 0 {
		fmt.Fprintf(out, "The database already contains %d course(s)\n", plan.TargetExisting)
	}
	if opts.dryRun || plan.SourceCourses == 0 {
		return exitOK
	}
	if plan.TargetExisting > 0 && !opts.overwrite {
		fmt.Fprintln(out, "Refusing to migrate into a non-empty database; rerun with -overwrite to replace it")
		return exitFailed
	}

	question := fmt.Sprintf("Migrate %d course(s) into %s@%s/%s?", plan.SourceCourses, cfg.Database.User, cfg.Database.Host, cfg.Database.Name)
	if !opts.assumeYes && !confirm(in, out, question) {
		fmt.Fprintln(out, "Migration cancelled")
		return exitOK
	}

	report, err := migrator.Migrate(ctx, opts.overwrite)
	if report != nil {
		printReport(out, report)
	}
	if err != nil {
		logr.Error("migration failed", zap.Error(err))
		return exitFailed
	}
	if report.FailedCourses > 0 {
		return exitPartial
	}
	return exitOK
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printReport(out io.Writer, report *dto.MigrationReport) {
	fmt.Fprintln(out, "Migration summary")
	if report.Overwritten {
		fmt.Fprintf(out, "  replaced existing courses: %d\n", report.TargetExisting)
	}
	fmt.Fprintf(out, "  courses migrated:     %d/%d\n", report.MigratedCourses, report.SourceCourses)
	fmt.Fprintf(out, "  assignments migrated: %d/%d\n", report.MigratedAssignments, report.SourceAssignments)
	if report.FailedCourses == 0 {
		return
	}
	fmt.Fprintf(out, "  failed courses:       %d\n", report.FailedCourses)
	for _, f := range report.Failures {
		fmt.Fprintf(out, "    %s (%s): %s\n", f.Code, f.CourseID, f.Error)
	}
}
