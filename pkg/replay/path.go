package replay

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// localFuncRe matches the synthetic names the runtime gives closures and
// other local functions.
var localFuncRe = regexp.MustCompile(`^func\d+$`)

// RecordingPath derives a deterministic recording location from a
// function's runtime name: the package path is stripped, local-scope
// qualifiers are dropped, and the qualified name becomes the file name
// under dir. The codec appends the format suffix.
func RecordingPath(fn any, dir string) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the package name
	}
	kept := parts[:0]
	for _, p := range parts {
		if localFuncRe.MatchString(p) {
			continue
		}
		p = strings.NewReplacer("(", "", ")", "", "*", "").Replace(p)
		kept = append(kept, p)
	}
	qualname := strings.Join(kept, ".")
	if qualname == "" {
		qualname = "anonymous"
	}
	return filepath.Join(dir, qualname)
}

// Run wraps a callable in a scoped session, the decorator surface of the
// manager. When no path or codec is configured the recording path is
// derived from the callable's qualified name under a recordings directory.
// Interception is released on every exit path, panics included.
func Run(ctx context.Context, logger *zap.Logger, opts Options, fn func(context.Context) error) (err error) {
	if opts.Path == "" && opts.Codec == nil {
		opts.Path = RecordingPath(fn, "recordings")
	}

	mgr, err := NewManager(logger, opts)
	if err != nil {
		return err
	}
	if err = mgr.Start(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = mgr.Stop(ctx, fmt.Errorf("panic: %v", p))
			panic(p)
		}
		stopErr := mgr.Stop(ctx, err)
		if err == nil {
			err = stopErr
		}
	}()

	err = fn(ctx)
	return err
}
