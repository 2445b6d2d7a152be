package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"table-mapper/model"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and adds their named types to a model.Graph.
type Analyzer struct {
	graph     *model.Graph
	dir       string
	typeCache map[types.Type]*model.TypeInfo // Cache to handle recursive types
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDir sets the directory patterns are resolved from.
func WithDir(dir string) Option {
	return func(a *Analyzer) {
		a.dir = dir
	}
}

// WithGraph makes the analyzer fill an existing graph.
func WithGraph(g *model.Graph) Option {
	return func(a *Analyzer) {
		if g != nil {
			a.graph = g
		}
	}
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		graph:     model.NewGraph(),
		typeCache: make(map[types.Type]*model.TypeInfo),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the specified packages and adds their types to the graph.
// Patterns are standard Go package patterns (e.g., "./examples/hr", "table-mapper/examples/hr").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*model.Graph, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no package patterns given")
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Register every package first so that isExternalPackage sees the whole set
	for _, pkg := range pkgs {
		if _, ok := a.graph.Packages[pkg.PkgPath]; !ok {
			a.graph.Packages[pkg.PkgPath] = &model.PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
		}
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *model.Graph {
	return a.graph
}

// processPackage extracts the exported named types of a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only process exported type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		a.analyzeType(typeName.Type())
	}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *model.TypeInfo {
	t = types.Unalias(t)

	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &model.TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = model.KindBasic
		info.ID = model.TypeID{Name: tt.Name()}

	case *types.Pointer:
		info.Kind = model.KindPointer
		info.Elem = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = model.KindSlice
		info.Elem = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = model.KindArray
		info.Elem = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = model.KindMap
		info.Key = a.analyzeType(tt.Key())
		info.Elem = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = model.KindStruct
		a.analyzeStructFields(tt, info)

	default:
		// Interfaces, channels, functions, type parameters
		info.Kind = model.KindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *model.TypeInfo) {
	obj := named.Obj()

	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	info.ID = model.TypeID{
		PkgPath: pkgPath,
		Name:    obj.Name(),
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = model.KindStruct
		a.analyzeStructFields(ut, info)

	case *types.Basic:
		// e.g. type Status string
		info.Kind = model.KindAlias
		info.Underlying = a.analyzeType(ut)

	default:
		// Opaque named types from packages that were not loaded, e.g. sql.NullString wrappers
		if a.isExternalPackage(pkgPath) {
			info.Kind = model.KindExternal
		} else {
			info.Kind = model.KindAlias
			info.Underlying = a.analyzeType(ut)
		}
	}

	if !a.isExternalPackage(pkgPath) {
		a.graph.Add(info)
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type. Blank fields feed
// the type-level marker; unexported fields are kept only when embedded.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *model.TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if field.Name() == "_" {
			info.Marker = model.MergeMarker(info.Marker, tag)
			continue
		}

		if !field.Exported() && !field.Embedded() {
			continue
		}

		info.Fields = append(info.Fields, model.FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      tag,
			Embedded: field.Embedded(),
			Index:    i,
		})
	}
}

// GetStruct returns the named struct type pkgPath.typeName.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*model.TypeInfo, error) {
	id := model.TypeID{PkgPath: pkgPath, Name: typeName}

	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}

	if info.Kind != model.KindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}

	return info, nil
}
