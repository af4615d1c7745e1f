package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/cmd/flutterxml/internal/cache"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/cmd/flutterxml/internal/config"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/cmd/flutterxml/internal/ui"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/compiler"
)

type compileOptions struct {
	outDir   string
	jobs     int
	watch    bool
	noCache  bool
	rebuild  bool
	cacheDir string
}

// fileResult is the outcome of compiling one layout file.
type fileResult struct {
	path   string
	output string
	code   string
	cached bool
	err    error
}

func newCompileCommand(flags *globalFlags) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile layout files to Dart",
		Long: `Compiles each XML layout file to the Dart expression of its widget tree.
With --out-dir the code of home.xml is written to <out-dir>/home.xml.dart,
otherwise it is printed to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(flags, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "Directory to write generated .dart files to")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Number of files compiled in parallel")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Recompile when a layout or the config file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Always recompile instead of reusing cached output")
	cmd.Flags().BoolVar(&opts.rebuild, "rebuild", false, "Clear the output cache before compiling")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "Directory of the output cache (defaults to the user cache dir)")

	return cmd
}

func runCompile(flags *globalFlags, opts *compileOptions, files []string, stdout io.Writer) error {
	start := time.Now()
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	b := &builder{outDir: opts.outDir, jobs: opts.jobs}
	if !opts.noCache {
		c, err := cache.Open(cache.Config{Dir: opts.cacheDir, MaxAge: cache.DefaultConfig().MaxAge})
		if err != nil {
			log.Printf("⚠️  Failed to open the output cache: %v (compiling everything)\n", err)
		} else {
			if opts.rebuild {
				if err := c.Clear(); err != nil {
					log.Printf("⚠️  Failed to clear the output cache: %v\n", err)
				}
			}
			b.cache = c
			defer b.saveCache()
		}
	}
	if err := b.configure(cfg, flags.logger()); err != nil {
		return err
	}

	failed := report(b.compileFiles(files), stdout, opts.outDir != "", start)
	if !opts.watch {
		if failed > 0 {
			return fmt.Errorf("%d of %d layouts failed to compile", failed, len(files))
		}
		return nil
	}

	w := &watcher{flags: flags, files: files, builder: b, stdout: stdout}
	return w.run()
}

// builder compiles layout files with one compiler configuration.
type builder struct {
	compiler *compiler.Compiler
	// fingerprint identifies the configuration in cache keys.
	fingerprint string
	cache       *cache.Cache
	outDir      string
	jobs        int
}

// configure swaps in a compiler built from cfg.
func (b *builder) configure(cfg *config.Config, logger *slog.Logger) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to fingerprint config: %w", err)
	}
	b.compiler = compiler.New(cfg.CompilerOptions(logger))
	b.fingerprint = string(data)
	return nil
}

func (b *builder) saveCache() {
	if err := b.cache.Save(); err != nil {
		log.Printf("⚠️  Failed to save the output cache: %v\n", err)
	}
}

// compileFiles compiles files with at most b.jobs running at once. Results keep the
// order of files.
func (b *builder) compileFiles(files []string) []fileResult {
	results := make([]fileResult, len(files))

	var g errgroup.Group
	if b.jobs > 0 {
		g.SetLimit(b.jobs)
	}
	for i, path := range files {
		g.Go(func() error {
			results[i] = b.compileFile(path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (b *builder) compileFile(path string) fileResult {
	res := fileResult{path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		res.err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}

	key := cache.Key(version, b.fingerprint, filepath.Base(path), string(src))
	if data, ok := b.cachedCode(key); ok {
		res.code, res.cached = string(data), true
	} else {
		out, err := b.compiler.Compile(path, string(src))
		if err != nil {
			res.err = fmt.Errorf("%s: %w", path, err)
			return res
		}
		res.code = out.Code
		if b.cache != nil {
			if err := b.cache.Put(key, path, []byte(out.Code)); err != nil {
				log.Printf("⚠️  %v\n", err)
			}
		}
	}

	if b.outDir == "" {
		return res
	}
	res.output = filepath.Join(b.outDir, filepath.Base(path)+".dart")
	if err := os.WriteFile(res.output, []byte(generatedFile(path, res.code)), 0644); err != nil {
		res.err = fmt.Errorf("failed to write %s: %w", res.output, err)
	}
	return res
}

func (b *builder) cachedCode(key string) ([]byte, bool) {
	if b.cache == nil {
		return nil, false
	}
	return b.cache.Get(key)
}

func generatedFile(source, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by flutterxml from %s. DO NOT EDIT.\n\n", filepath.Base(source))
	b.WriteString(code)
	b.WriteString("\n")
	return b.String()
}

// report prints results and returns the number of failures.
func report(results []fileResult, stdout io.Writer, wroteFiles bool, start time.Time) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			log.Println(ui.RenderError(r.err))
		case wroteFiles && r.cached:
			log.Printf("📦 %s → %s (cached)\n", r.path, r.output)
		case wroteFiles:
			log.Printf("📝 %s → %s\n", r.path, r.output)
		default:
			fmt.Fprintf(stdout, "// %s\n%s\n", r.path, r.code)
		}
	}
	elapsed := time.Since(start).Round(time.Millisecond).String()
	log.Println(ui.RenderSummary(len(results)-failed, failed, elapsed))
	return failed
}

type watcher struct {
	flags   *globalFlags
	files   []string
	builder *builder
	stdout  io.Writer
}

func (w *watcher) run() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Editors replace files on save, so watch directories rather than files.
	dirs := map[string]bool{filepath.Dir(w.flags.configPath): true}
	for _, f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	log.Printf("👀 Watching %d layout(s) for changes...\n", len(w.files))

	debounce := time.NewTimer(0)
	<-debounce.C

	pending := map[string]bool{}
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.isRelevant(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			changed := pending
			pending = map[string]bool{}
			w.rebuild(changed)
		}
	}
}

func (w *watcher) isRelevant(path string) bool {
	path = filepath.Clean(path)
	if path == filepath.Clean(w.flags.configPath) {
		return true
	}
	for _, f := range w.files {
		if filepath.Clean(f) == path {
			return true
		}
	}
	return false
}

// rebuild recompiles the changed layouts, or every layout when the config changed.
func (w *watcher) rebuild(changed map[string]bool) {
	start := time.Now()
	files := w.files

	if changed[filepath.Clean(w.flags.configPath)] {
		cfg, err := w.flags.loadConfig()
		if err != nil {
			log.Printf("⚠️  %v (keeping the previous config)\n", err)
			return
		}
		if err := w.builder.configure(cfg, w.flags.logger()); err != nil {
			log.Printf("⚠️  %v (keeping the previous config)\n", err)
			return
		}
		log.Println("🔄 Config changed, rebuilding all layouts")
	} else {
		files = nil
		for _, f := range w.files {
			if changed[filepath.Clean(f)] {
				files = append(files, f)
			}
		}
		log.Printf("🔨 Rebuilding %d layout(s)\n", len(files))
	}

	report(w.builder.compileFiles(files), w.stdout, w.builder.outDir != "", start)
	if w.builder.cache != nil {
		w.builder.saveCache()
	}
}
