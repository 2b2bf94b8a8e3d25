// Copyright © 2024 The ELPS authors

package lint

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer which records a span per linted file.
const TracerName = "github.com/jshint/jshint-sub001/lint"

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// LintPaths reads and lints every file in paths concurrently.  Results are
// returned in the order of paths.  A file which cannot be read fails the
// whole batch; lint problems never do.
func (l *Linter) LintPaths(ctx context.Context, paths []string) ([]*FileResult, error) {
	ctx, span := tracer().Start(ctx, "lint.LintPaths",
		trace.WithAttributes(attribute.Int("lint.files", len(paths))))
	defer span.End()

	workers := l.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*FileResult, len(paths))
	p := pool.New().WithMaxGoroutines(workers).WithErrors().WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			res, err := l.lintPath(ctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return results, nil
}

func (l *Linter) lintPath(ctx context.Context, path string) (*FileResult, error) {
	_, span := tracer().Start(ctx, "lint.File", trace.WithAttributes(semconv.CodeFilepath(path)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.logger().WithField("file", path).Debug("linting file")
	source, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger().WithFields(logrus.Fields{"file": path, "error": err}).Error("cannot read file")
		return nil, err
	}
	res, err := l.LintSource(source, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("lint.diagnostics", len(res.Diagnostics)),
		attribute.Bool("lint.incomplete", res.Incomplete),
	)
	return res, nil
}

// Count returns the number of diagnostics over all results.
func Count(results []*FileResult) int {
	n := 0
	for _, r := range results {
		if r != nil {
			n += len(r.Diagnostics)
		}
	}
	return n
}

// Flatten concatenates the diagnostics of results.
func Flatten(results []*FileResult) []Diagnostic {
	var all []Diagnostic
	for _, r := range results {
		if r != nil {
			all = append(all, r.Diagnostics...)
		}
	}
	return all
}
