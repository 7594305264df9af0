package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/record"
	"go.uber.org/zap"
)

// ErrPanic wraps a panic recovered while processing one document.
var ErrPanic = errors.New("document processing panicked")

// Input is one raw document and the family it belongs to.
type Input struct {
	Source string
	Family string
	Body   []byte
}

// Ref names a document still to be loaded.
type Ref struct {
	Source string
	Family string
}

// Loader turns a Ref into an Input, reading a file or fetching a URL.
type Loader interface {
	Load(ctx context.Context, ref Ref) (Input, error)
}

// Failure is a document, or a record of it, that could not be assembled.
type Failure struct {
	Source string
	Family string
	Err    error
}

func (f Failure) Error() string {
	return f.Source + ": " + f.Err.Error()
}

// Summary counts a run twice. Complete, Partial and Failed are per record:
// Failed counts Failures, so a programme block without an id counts on its
// own. The Documents* fields classify each input document: failed when it
// produced no record, partial when it produced a partial record or lost a
// block, complete otherwise.
type Summary struct {
	Documents int
	Records   int
	Complete  int
	Partial   int
	Failed    int

	DocumentsComplete int
	DocumentsPartial  int
	DocumentsFailed   int
}

// Result is the output of one run. Records and Failures each follow the
// input order.
type Result struct {
	RunID    string
	Records  []*record.Record
	Failures []Failure
	Summary  Summary
}

type Orchestrator struct {
	options
	idGen *snowflake.Node
}

func New(opts ...Option) (*Orchestrator, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.Registry == nil {
		options.Registry = family.Store
	}
	if options.Assembler == nil {
		options.Assembler = record.NewAssembler(record.WithLogger(options.Logger))
	}
	if options.WorkCount < 1 {
		options.WorkCount = 1
	}

	node, err := snowflake.NewNode(options.NodeID)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{options: options, idGen: node}, nil
}

// outcome is what one document contributed to the result.
type outcome struct {
	records  []*record.Record
	failures []Failure
}

func (out outcome) status() record.Status {
	if len(out.records) == 0 {
		return record.StatusFailed
	}
	if len(out.failures) > 0 {
		return record.StatusPartial
	}
	for _, r := range out.records {
		if !r.Complete() {
			return record.StatusPartial
		}
	}

	return record.StatusComplete
}

// Run assembles every input. A bad document never stops the run: it
// becomes a Failure and the next document is processed. Once ctx is done
// the remaining documents are reported as failures.
func (o *Orchestrator) Run(ctx context.Context, inputs []Input) *Result {
	return o.run(ctx, len(inputs), func(ctx context.Context, i int) outcome {
		return o.process(ctx, inputs[i])
	})
}

// RunRefs loads each ref through loader before assembling it. Load errors
// are failures like any other.
func (o *Orchestrator) RunRefs(ctx context.Context, loader Loader, refs []Ref) *Result {
	return o.run(ctx, len(refs), func(ctx context.Context, i int) outcome {
		ref := refs[i]
		in, err := o.load(ctx, loader, ref)
		if err != nil {
			o.Logger.Warn("load failed", zap.String("source", ref.Source), zap.Error(err))
			return outcome{failures: []Failure{{Source: ref.Source, Family: ref.Family, Err: err}}}
		}
		if in.Source == "" {
			in.Source = ref.Source
		}
		if in.Family == "" {
			in.Family = ref.Family
		}
		return o.process(ctx, in)
	})
}

// load shields the run from a loader that panics.
func (o *Orchestrator) load(ctx context.Context, loader Loader, ref Ref) (in Input, err error) {
	defer func() {
		if p := recover(); p != nil {
			o.Logger.Error("recovered from loader panic", zap.String("source", ref.Source), zap.Any("panic", p))
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()

	return loader.Load(ctx, ref)
}

func (o *Orchestrator) run(ctx context.Context, n int, work func(context.Context, int) outcome) *Result {
	res := &Result{RunID: o.idGen.Generate().String()}
	outcomes := make([]outcome, n)

	workerCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.WorkCount && w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workerCh {
				outcomes[i] = work(ctx, i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		workerCh <- i
	}
	close(workerCh)
	wg.Wait()

	res.Summary.Documents = n
	for _, out := range outcomes {
		res.Records = append(res.Records, out.records...)
		res.Failures = append(res.Failures, out.failures...)

		switch out.status() {
		case record.StatusComplete:
			res.Summary.DocumentsComplete++
		case record.StatusPartial:
			res.Summary.DocumentsPartial++
		default:
			res.Summary.DocumentsFailed++
		}
	}
	for _, r := range res.Records {
		switch r.Status() {
		case record.StatusComplete:
			res.Summary.Complete++
		case record.StatusPartial:
			res.Summary.Partial++
		}
	}
	res.Summary.Records = len(res.Records)
	res.Summary.Failed = len(res.Failures)

	o.Logger.Info("batch finished",
		zap.String("run", res.RunID),
		zap.Int("documents", res.Summary.Documents),
		zap.Int("complete", res.Summary.Complete),
		zap.Int("partial", res.Summary.Partial),
		zap.Int("failed", res.Summary.Failed),
	)

	return res
}

// process runs one document through parse and assembly.
func (o *Orchestrator) process(ctx context.Context, in Input) (out outcome) {
	fail := func(err error) outcome {
		o.Logger.Warn("document failed", zap.String("source", in.Source), zap.String("family", in.Family), zap.Error(err))
		return outcome{failures: []Failure{{Source: in.Source, Family: in.Family, Err: err}}}
	}

	defer func() {
		if p := recover(); p != nil {
			o.Logger.Error("recovered from panic", zap.String("source", in.Source), zap.Any("panic", p))
			out = fail(fmt.Errorf("%w: %v", ErrPanic, p))
		}
	}()

	if err := ctx.Err(); err != nil {
		return fail(fmt.Errorf("skipped: %w", err))
	}

	table, err := o.Registry.Lookup(in.Family)
	if err != nil {
		return fail(err)
	}

	doc, err := document.Parse(in.Source, table.Kind, in.Body)
	if err != nil {
		return fail(err)
	}

	records, errs := o.Assembler.AssembleAll(doc, table)
	out.records = records
	for _, err := range errs {
		source := in.Source
		var se *record.SourceError
		if errors.As(err, &se) {
			source = se.Source
		}
		out.failures = append(out.failures, Failure{Source: source, Family: table.Family, Err: err})
	}

	o.Logger.Debug("document processed",
		zap.String("source", in.Source),
		zap.Int("records", len(records)),
		zap.Int("failures", len(errs)),
	)

	return out
}
