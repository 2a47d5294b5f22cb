// Package watch observes the persons directory and re-validates documents as
// they change on disk, so hand edits and external imports get the same
// feedback as store writes. An optional hook command runs after each change.
package watch

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/biograf/biograf/errors"
	"github.com/biograf/biograf/logger"
	"github.com/biograf/biograf/persons"
)

const (
	defaultDebounce  = 500 * time.Millisecond
	defaultPerMinute = 60
	hookTimeout      = 30 * time.Second
)

// ChangeFunc receives the validation outcome for a changed document.
type ChangeFunc func(path string, issues []persons.Issue)

// Options configures a Watcher. Dir is required; everything else defaults.
type Options struct {
	Dir string

	// Debounce is the quiet period per path before a change is processed.
	Debounce time.Duration

	// MaxEventsPerMinute caps how often a single path is processed, so an
	// editor or sync tool rewriting one file in a loop cannot wedge us.
	MaxEventsPerMinute float64

	// Exec is an optional hook command line; the changed path is appended
	// as the final argument.
	Exec string

	// OnChange is called with each processed change. Defaults to logging.
	OnChange ChangeFunc

	Logger *zap.SugaredLogger
}

// Watcher validates person documents as they change.
type Watcher struct {
	dir      string
	debounce time.Duration
	perMin   float64
	execArgv []string
	onChange ChangeFunc
	log      *zap.SugaredLogger

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	timers   map[string]*time.Timer
	limiters map[string]*rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Watcher. The hook command line is parsed up front so quoting
// mistakes surface before anything starts.
func New(opts Options) (*Watcher, error) {
	if opts.Dir == "" {
		return nil, errors.New("watch directory is required")
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, errors.WrapIO(err, "stat watch directory")
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a directory", opts.Dir)
	}

	var execArgv []string
	if opts.Exec != "" {
		execArgv, err = shellquote.Split(opts.Exec)
		if err != nil {
			return nil, errors.Wrapf(err, "parse --exec command %q", opts.Exec)
		}
		if len(execArgv) == 0 {
			return nil, errors.Newf("--exec command %q is empty", opts.Exec)
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	perMin := opts.MaxEventsPerMinute
	if perMin <= 0 {
		perMin = defaultPerMinute
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger(logger.ComponentWatch)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      opts.Dir,
		debounce: debounce,
		perMin:   perMin,
		execArgv: execArgv,
		onChange: opts.OnChange,
		log:      log,
		timers:   make(map[string]*time.Timer),
		limiters: make(map[string]*rate.Limiter),
		ctx:      ctx,
		cancel:   cancel,
	}
	if w.onChange == nil {
		w.onChange = w.logChange
	}
	return w, nil
}

// Start begins watching. It returns once the filesystem watch is
// established; processing happens on background goroutines until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return errors.Wrapf(err, "watch %s", w.dir)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	w.log.Infow("watching persons directory",
		logger.FieldPath, w.dir,
		"debounce_ms", w.debounce.Milliseconds())
	return nil
}

// Stop shuts the watcher down and waits for in-flight processing.
func (w *Watcher) Stop() {
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
	}

	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	w.log.Infow("watcher stopped")
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watch error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if !isPersonDocument(event.Name) {
		return
	}
	w.schedule(event.Name)
}

// schedule debounces per path: rapid saves collapse into one processing run
// after the quiet period.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.process(path)
	})
}

func (w *Watcher) process(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	limiter := w.limiters[path]
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(w.perMin/60.0), 1)
		w.limiters[path] = limiter
	}
	w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}
	if !limiter.Allow() {
		w.log.Debugw("change rate limited", logger.FieldPath, path)
		return
	}

	// Rename events also fire for the old name; a vanished file is not an
	// error, the document just moved.
	if _, err := os.Stat(path); err != nil {
		w.log.Infow("document removed", logger.FieldPath, path)
		return
	}

	issues := persons.ValidateFile(path)
	w.onChange(path, issues)
	w.runHook(path)
}

func (w *Watcher) logChange(path string, issues []persons.Issue) {
	if len(issues) == 0 {
		w.log.Infow("document valid", logger.FieldPath, path)
		return
	}
	for _, issue := range issues {
		w.log.Warnw("validation issue",
			logger.FieldPath, path,
			logger.FieldSeverity, string(issue.Severity),
			"issue", issue.Message)
	}
}

func (w *Watcher) runHook(path string) {
	if len(w.execArgv) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, hookTimeout)
	defer cancel()

	argv := append(append([]string{}, w.execArgv...), path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		w.log.Errorw("hook command failed",
			logger.FieldPath, path,
			logger.FieldError, err,
			"output", strings.TrimSpace(string(out)))
		return
	}
	w.log.Infow("hook command completed", logger.FieldPath, path)
}

// isPersonDocument filters events down to real person files: YAML only, and
// never our own atomic-write temp files.
func isPersonDocument(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == ".yaml"
}
