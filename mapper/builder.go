package mapper

import (
	"cmp"
	"errors"
	"maps"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"

	"table-mapper/model"
)

type lifecycle int

const (
	unresolved lifecycle = iota
	resolved
)

// Builder collects type registrations and resolves them into tables.
//
// Registration is only possible until the first call that needs results
// (Tables, Table, ColumnName, Resolve). Resolution runs once; afterwards the
// builder is read-only and every mutation fails with ErrAlreadyInitialized.
type Builder struct {
	graph       *model.Graph
	log         *zap.Logger
	conventions Conventions

	configs map[model.TypeID]*TypeConfig
	nested  map[model.TypeID]*model.TypeInfo
	seq     int

	discovery   Processor
	annotations Processor
	core        Processor
	metadata    []*MetadataProcessor
	custom      []Processor

	annotationsEnabled bool
	metadataEnabled    bool

	state  lifecycle
	tables []*Table
	byID   map[model.TypeID]*Table
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output of the pipeline.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithConventions replaces the naming conventions.
func WithConventions(c Conventions) Option {
	return func(b *Builder) {
		b.conventions = c.withDefaults()
	}
}

// WithAnnotations enables or disables struct-tag configuration.
func WithAnnotations(enabled bool) Option {
	return func(b *Builder) {
		b.annotationsEnabled = enabled
	}
}

// WithMetadata enables or disables the metadata processors.
func WithMetadata(enabled bool) Option {
	return func(b *Builder) {
		b.metadataEnabled = enabled
	}
}

// WithGraph makes the builder share a type graph, e.g. one loaded from
// source by the analyzer.
func WithGraph(g *model.Graph) Option {
	return func(b *Builder) {
		if g != nil {
			b.graph = g
		}
	}
}

// NewBuilder creates a builder with the default pipeline: discovery,
// annotations, core and one metadata processor.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		graph:              model.NewGraph(),
		log:                zap.NewNop(),
		conventions:        DefaultConventions(),
		configs:            make(map[model.TypeID]*TypeConfig),
		nested:             make(map[model.TypeID]*model.TypeInfo),
		discovery:          &DiscoveryProcessor{},
		annotations:        &AnnotationProcessor{},
		core:               &CoreProcessor{},
		metadata:           []*MetadataProcessor{NewMetadataProcessor()},
		annotationsEnabled: true,
		metadataEnabled:    true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Graph returns the type graph used for reflection-based registration.
func (b *Builder) Graph() *model.Graph {
	return b.graph
}

func (b *Builder) resolved() bool {
	return b.state == resolved
}

func (b *Builder) checkMutable() error {
	if b.resolved() {
		return newError(ErrAlreadyInitialized, model.TypeID{}, "", "registration is closed once tables are resolved")
	}

	return nil
}

// RegisterType registers a struct type (pointers are dereferenced).
func (b *Builder) RegisterType(rt reflect.Type, configure ...func(*TypeConfig)) (*TypeConfig, error) {
	info, err := b.infoOf(rt)
	if err != nil {
		return nil, err
	}

	return b.RegisterInfo(info, configure...)
}

// RegisterInfo registers a type described by a TypeInfo. Registering the
// same type again returns the existing handle and applies configure to it.
func (b *Builder) RegisterInfo(info *model.TypeInfo, configure ...func(*TypeConfig)) (*TypeConfig, error) {
	if err := b.checkMutable(); err != nil {
		return nil, err
	}

	info, err := structInfo(info)
	if err != nil {
		return nil, err
	}

	c := b.configs[info.ID]
	switch {
	case c == nil:
		c = b.newConfig(info, false)
		b.log.Debug("registered type", zap.Stringer("type", info.ID))
	case c.auto:
		c.auto = false
		b.log.Debug("ancestor registered explicitly", zap.Stringer("type", info.ID))
	}

	b.registerAncestors(info)

	for _, fn := range configure {
		if fn != nil {
			fn(c)
		}
	}

	return c, c.err
}

// RegisterNestedType registers a struct type as a nested value object whose
// members are inlined into the types that hold it.
func (b *Builder) RegisterNestedType(rt reflect.Type) error {
	info, err := b.infoOf(rt)
	if err != nil {
		return err
	}

	return b.RegisterNestedInfo(info)
}

// RegisterNestedInfo is RegisterNestedType for a TypeInfo.
func (b *Builder) RegisterNestedInfo(info *model.TypeInfo) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	info, err := structInfo(info)
	if err != nil {
		return err
	}

	b.nested[info.ID] = info
	b.log.Debug("registered nested type", zap.Stringer("type", info.ID))

	// a value object is never an ancestor
	if c := b.configs[info.ID]; c != nil && c.auto {
		delete(b.configs, info.ID)
	}

	return nil
}

// Unregister removes a type registration, table or nested.
func (b *Builder) Unregister(rt reflect.Type) error {
	info, err := b.infoOf(rt)
	if err != nil {
		return err
	}

	return b.UnregisterInfo(info)
}

// UnregisterInfo is Unregister for a TypeInfo.
func (b *Builder) UnregisterInfo(info *model.TypeInfo) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	info = info.Deref()
	if info == nil {
		return newError(ErrInvalidType, model.TypeID{}, "", "nil type")
	}

	delete(b.configs, info.ID)
	delete(b.nested, info.ID)

	return nil
}

// Reset discards the configuration of a registered type and returns its
// cleared handle.
func (b *Builder) Reset(rt reflect.Type) (*TypeConfig, error) {
	if err := b.checkMutable(); err != nil {
		return nil, err
	}

	info, err := b.infoOf(rt)
	if err != nil {
		return nil, err
	}

	c := b.configs[info.ID]
	if c == nil {
		return nil, newError(ErrInvalidType, info.ID, "", "type is not registered")
	}

	c.raw = RawConfig{}
	c.err = nil

	return c, nil
}

// Config returns the handle of a registered type, or nil.
func (b *Builder) Config(id model.TypeID) *TypeConfig {
	return b.configs[id]
}

// IsNested reports whether id was registered as a nested type.
func (b *Builder) IsNested(id model.TypeID) bool {
	_, ok := b.nested[id]
	return ok
}

func (b *Builder) newConfig(info *model.TypeInfo, auto bool) *TypeConfig {
	b.seq++
	c := &TypeConfig{builder: b, info: info, auto: auto, seq: b.seq}
	b.configs[info.ID] = c

	return c
}

// baseType returns the ancestor of info. Embedded nested types are value
// objects whose members count as the type's own.
func (b *Builder) baseType(info *model.TypeInfo) *model.TypeInfo {
	return info.BaseTypeFunc(func(t *model.TypeInfo) bool {
		_, ok := b.nested[t.ID]
		return ok
	})
}

// registerAncestors adds every missing ancestor with default configuration.
func (b *Builder) registerAncestors(info *model.TypeInfo) {
	for base := b.baseType(info); base != nil; base = b.baseType(base) {
		if _, ok := b.configs[base.ID]; ok {
			continue
		}

		b.newConfig(base, true)
		b.log.Debug("auto-registered ancestor",
			zap.Stringer("type", base.ID),
			zap.Stringer("descendant", info.ID))
	}
}

func (b *Builder) infoOf(rt reflect.Type) (*model.TypeInfo, error) {
	if rt == nil {
		return nil, newError(ErrInvalidType, model.TypeID{}, "", "nil type")
	}

	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	return b.graph.FromReflect(rt), nil
}

func structInfo(info *model.TypeInfo) (*model.TypeInfo, error) {
	info = info.Deref()
	if info == nil {
		return nil, newError(ErrInvalidType, model.TypeID{}, "", "nil type")
	}

	if info.Kind != model.KindStruct || !info.IsNamed() {
		return nil, newError(ErrInvalidType, info.ID, "", "%s is not a named struct type", info)
	}

	return info, nil
}

// AddProcessor appends a processor. Metadata processors join the metadata
// stage; any other processor runs after it.
func (b *Builder) AddProcessor(p Processor) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	if p == nil {
		return newError(ErrInvalidConfig, model.TypeID{}, "", "nil processor")
	}

	if mp, ok := p.(*MetadataProcessor); ok {
		b.metadata = append(b.metadata, mp)
		return nil
	}

	b.custom = append(b.custom, p)

	return nil
}

// AddMetadataProcessor appends a metadata processor.
func (b *Builder) AddMetadataProcessor(p *MetadataProcessor) error {
	return b.AddProcessor(p)
}

// RemoveProcessor removes a processor added with AddProcessor, or one of the
// metadata processors (the default one included).
func (b *Builder) RemoveProcessor(p Processor) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	if mp, ok := p.(*MetadataProcessor); ok {
		b.metadata = slices.DeleteFunc(b.metadata, func(q *MetadataProcessor) bool { return q == mp })
		return nil
	}

	b.custom = slices.DeleteFunc(b.custom, func(q Processor) bool { return q == p })

	return nil
}

// ReplaceProcessor swaps a built-in stage for another implementation.
func (b *Builder) ReplaceProcessor(stage Stage, p Processor) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	if p == nil {
		return newError(ErrInvalidConfig, model.TypeID{}, "", "nil processor for stage %s", stage)
	}

	switch stage {
	case StageDiscovery:
		b.discovery = p
	case StageAnnotations:
		b.annotations = p
	case StageCore:
		b.core = p
	default:
		return newError(ErrInvalidConfig, model.TypeID{}, "", "unknown stage %d", stage)
	}

	return nil
}

// MetadataProcessors returns the metadata processors in run order.
func (b *Builder) MetadataProcessors() []*MetadataProcessor {
	return slices.Clone(b.metadata)
}

// EnableAnnotations turns struct-tag configuration on or off.
func (b *Builder) EnableAnnotations(enabled bool) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	b.annotationsEnabled = enabled

	return nil
}

// EnableMetadata turns the metadata processors on or off.
func (b *Builder) EnableMetadata(enabled bool) error {
	if err := b.checkMutable(); err != nil {
		return err
	}

	b.metadataEnabled = enabled

	return nil
}

// Types returns every registered type, ancestors included, ordered by
// inheritance depth and then by registration order.
func (b *Builder) Types() []*TypeConfig {
	out := make([]*TypeConfig, 0, len(b.configs))
	depth := make(map[*TypeConfig]int, len(b.configs))

	for _, c := range b.configs {
		out = append(out, c)
		depth[c] = c.Depth()
	}

	slices.SortFunc(out, func(x, y *TypeConfig) int {
		if d := cmp.Compare(depth[x], depth[y]); d != 0 {
			return d
		}

		return cmp.Compare(x.seq, y.seq)
	})

	return out
}

func (b *Builder) pipeline() []Processor {
	procs := []Processor{b.discovery}
	if b.annotationsEnabled {
		procs = append(procs, b.annotations)
	}

	procs = append(procs, b.core)

	if b.metadataEnabled {
		for _, mp := range b.metadata {
			procs = append(procs, mp)
		}
	}

	return append(procs, b.custom...)
}

// Resolve runs the pipeline if it has not run yet. On error nothing is
// published and the builder stays open for corrections.
func (b *Builder) Resolve() error {
	if b.resolved() {
		return nil
	}

	// Types is a snapshot in a stable order, so ancestors re-added here
	// get deterministic sequence numbers
	for _, c := range b.Types() {
		b.registerAncestors(c.info)
	}

	configs := b.Types()

	var errs []error
	for _, c := range configs {
		if c.err != nil {
			errs = append(errs, c.err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	start := time.Now()
	state := newState(b, configs)
	b.log.Debug("resolving tables", zap.Int("types", len(configs)), zap.Int("nested", len(b.nested)))

	for _, p := range b.pipeline() {
		stepStart := time.Now()
		if err := p.Process(state); err != nil {
			b.log.Debug("processor failed", zap.String("processor", p.Name()), zap.Error(err))
			return err
		}

		b.log.Debug("processor done", zap.String("processor", p.Name()), zap.Duration("took", time.Since(stepStart)))
	}

	if b.metadataEnabled {
		b.dropIgnoredMetadata(state.entries)
	}

	b.byID = make(map[model.TypeID]*Table, len(state.entries))
	b.tables = make([]*Table, 0, len(state.entries))

	for _, e := range state.entries {
		b.byID[e.ID()] = e.Table
		if e.Table.IsTable {
			b.tables = append(b.tables, e.Table)
		}
	}

	b.state = resolved
	b.log.Debug("tables resolved", zap.Int("tables", len(b.tables)), zap.Duration("took", time.Since(start)))

	return nil
}

// dropIgnoredMetadata removes the keys any metadata processor ignores from
// every table, whichever processor copied them.
func (b *Builder) dropIgnoredMetadata(entries []*Entry) {
	ignored := func(key string, _ any) bool {
		for _, mp := range b.metadata {
			if mp.ignored(key) {
				return true
			}
		}

		return false
	}

	for _, e := range entries {
		maps.DeleteFunc(e.Table.Metadata, ignored)

		for path, m := range e.Table.MemberMetadata {
			maps.DeleteFunc(m, ignored)

			if len(m) == 0 {
				delete(e.Table.MemberMetadata, path)
			}
		}
	}
}

// Tables returns the published tables in ancestor-first order, resolving on
// first use.
func (b *Builder) Tables() ([]*Table, error) {
	if err := b.Resolve(); err != nil {
		return nil, err
	}

	return slices.Clone(b.tables), nil
}

// Table returns the table of a type, or nil when the type is not a
// registered table.
func (b *Builder) Table(rt reflect.Type) (*Table, error) {
	if rt == nil {
		return nil, nil
	}

	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	return b.TableByID(model.TypeID{PkgPath: rt.PkgPath(), Name: rt.Name()})
}

// TableInfo is Table for a TypeInfo.
func (b *Builder) TableInfo(info *model.TypeInfo) (*Table, error) {
	info = info.Deref()
	if info == nil {
		return nil, nil
	}

	return b.TableByID(info.ID)
}

// TableByID is Table for a TypeID.
func (b *Builder) TableByID(id model.TypeID) (*Table, error) {
	if err := b.Resolve(); err != nil {
		return nil, err
	}

	t := b.byID[id]
	if t == nil || !t.IsTable {
		return nil, nil
	}

	return t, nil
}

// Resolved returns the resolution output of any registered type, including
// types that are not published as tables.
func (b *Builder) Resolved(id model.TypeID) (*Table, error) {
	if err := b.Resolve(); err != nil {
		return nil, err
	}

	return b.byID[id], nil
}

// ColumnName returns the column name of path on the table of rt.
func (b *Builder) ColumnName(rt reflect.Type, path string) (string, error) {
	t, err := b.Table(rt)
	if err != nil {
		return "", err
	}

	if t == nil {
		return "", newError(ErrInvalidType, model.TypeID{Name: typeName(rt)}, path, "type is not a registered table")
	}

	return t.ColumnName(path)
}

func typeName(rt reflect.Type) string {
	if rt == nil {
		return "<nil>"
	}

	return rt.String()
}
