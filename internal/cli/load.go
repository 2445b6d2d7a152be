package cli

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"table-mapper/internal/analyze"
	"table-mapper/internal/config"
	"table-mapper/internal/diagnostic"
	"table-mapper/mapper"
	"table-mapper/model"
)

// session is one load of Go packages and their table configuration.
type session struct {
	graph   *model.Graph
	file    *config.File
	diags   *diagnostic.Diagnostics
	builder *mapper.Builder
}

// load analyzes the packages, validates the table configuration file when
// one is set and registers every annotated type. A session carrying the
// diagnostics is returned along with the error of an invalid configuration.
func load(ctx context.Context, s *Settings, log *zap.Logger, patterns []string) (*session, error) {
	a := analyze.NewAnalyzer(analyze.WithDir(s.Dir))

	graph, err := a.LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	log.Info("loaded packages", zap.Strings("patterns", patterns), zap.Int("types", len(graph.Types)))

	ses := &session{graph: graph, diags: &diagnostic.Diagnostics{}}

	opts := []mapper.Option{mapper.WithLogger(log)}

	if s.Conventions != "" {
		conv, ok := mapper.ConventionsByName(s.Conventions)
		if !ok {
			return nil, fmt.Errorf("unknown conventions %q", s.Conventions)
		}

		opts = append(opts, mapper.WithConventions(conv))
	}

	if s.Config == "" {
		ses.builder = mapper.NewBuilder(append([]mapper.Option{mapper.WithGraph(graph)}, opts...)...)
	} else {
		f, err := config.LoadFile(s.Config)
		if err != nil {
			return nil, err
		}

		ses.file = f
		ses.diags = config.Validate(f, graph)

		if ses.diags.HasErrors() {
			return ses, fmt.Errorf("%s: %d configuration error(s)", s.Config, len(ses.diags.Errors))
		}

		// flags override the file's own options
		ses.builder, err = config.NewBuilder(f, graph, opts...)
		if err != nil {
			return ses, err
		}
	}

	if err := registerAnnotated(ses.builder, graph, log); err != nil {
		return ses, err
	}

	return ses, nil
}

// registerAnnotated registers every struct carrying a type-level table
// marker. Abstract types are left to ancestor auto-registration.
func registerAnnotated(b *mapper.Builder, graph *model.Graph, log *zap.Logger) error {
	paths := make([]string, 0, len(graph.Packages))
	for p := range graph.Packages {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	for _, p := range paths {
		for _, id := range graph.Packages[p].Types {
			info := graph.GetType(id)
			if info == nil || !info.IsStruct() || b.IsNested(id) {
				continue
			}

			if _, ok := info.TypeTag(model.TagKey); !ok {
				continue
			}

			switch {
			case info.NestedMarker():
				if err := b.RegisterNestedInfo(info); err != nil {
					return err
				}
			case info.Abstract():
				continue
			default:
				if _, err := b.RegisterInfo(info); err != nil {
					return err
				}
			}

			log.Debug("registered annotated type", zap.Stringer("type", id))
		}
	}

	return nil
}
