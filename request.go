package traverse

import (
	"context"
	"sync"
)

// RequestKind names the operation a Request asks the worker to perform.
type RequestKind string

// Request kinds.
const (
	KindShutdown      RequestKind = "shutdown"
	KindCallGraph     RequestKind = "call_graph"
	KindFlowchart     RequestKind = "flowchart"
	KindAllDiagrams   RequestKind = "all_diagrams"
	KindStorageLayout RequestKind = "storage_layout"
)

// Request is a unit of work for the generation worker. The set of
// implementations is closed: *Shutdown, *CallGraphRequest, *FlowchartRequest,
// *AllDiagramsRequest and *StorageLayoutRequest.
type Request interface {
	Kind() RequestKind
	// Fail delivers err on the request's reply, if it has one and nothing
	// has been delivered yet.
	Fail(err error)

	isRequest()
}

// Shutdown stops the worker once every request queued ahead of it is done.
type Shutdown struct{}

func (*Shutdown) Kind() RequestKind { return KindShutdown }
func (*Shutdown) Fail(error)        {}
func (*Shutdown) isRequest()        {}

// CallGraphRequest asks for a Graphviz rendering of the call graph.
type CallGraphRequest struct {
	Sources        []string // Ordered document locations
	ContractFilter string   // Accepted but not applied
	Reply          *Reply[*CallGraphDiagram]
}

func (r *CallGraphRequest) Kind() RequestKind { return KindCallGraph }
func (r *CallGraphRequest) Fail(err error)    { r.Reply.Deliver(nil, err) }
func (*CallGraphRequest) isRequest()          {}

// FlowchartRequest asks for a sequence diagram, optionally chunked on disk.
type FlowchartRequest struct {
	Sources        []string
	ContractFilter string
	NoChunk        bool
	ChunkDir       string // Overrides the worker's default chunk directory
	Reply          *Reply[*Flowchart]
}

func (r *FlowchartRequest) Kind() RequestKind { return KindFlowchart }
func (r *FlowchartRequest) Fail(err error)    { r.Reply.Deliver(nil, err) }
func (*FlowchartRequest) isRequest()          {}

// AllDiagramsRequest asks for both diagrams from a single call-graph build.
type AllDiagramsRequest struct {
	Sources        []string
	ContractFilter string
	Reply          *Reply[*AllDiagrams]
}

func (r *AllDiagramsRequest) Kind() RequestKind { return KindAllDiagrams }
func (r *AllDiagramsRequest) Fail(err error)    { r.Reply.Deliver(nil, err) }
func (*AllDiagramsRequest) isRequest()          {}

// StorageLayoutRequest asks for the Markdown storage access report.
type StorageLayoutRequest struct {
	Sources      []string
	ContractName string // Accepted but not applied
	Reply        *Reply[*StorageLayout]
}

func (r *StorageLayoutRequest) Kind() RequestKind { return KindStorageLayout }
func (r *StorageLayoutRequest) Fail(err error)    { r.Reply.Deliver(nil, err) }
func (*StorageLayoutRequest) isRequest()          {}

// Reply is a single-use slot carrying one result or error back to the
// goroutine that issued a request. Delivery never blocks, so a receiver that
// stopped waiting does not stall the sender.
type Reply[T any] struct {
	ch   chan replyValue[T]
	once sync.Once
}

type replyValue[T any] struct {
	value T
	err   error
}

// NewReply creates an empty reply slot.
func NewReply[T any]() *Reply[T] {
	return &Reply[T]{ch: make(chan replyValue[T], 1)}
}

// Deliver stores the result. Only the first call has an effect; it reports
// whether this call was the one that delivered.
func (r *Reply[T]) Deliver(value T, err error) bool {
	if r == nil {
		return false
	}
	delivered := false
	r.once.Do(func() {
		r.ch <- replyValue[T]{value: value, err: err}
		delivered = true
	})
	return delivered
}

// Await blocks until a result is delivered or ctx is done.
func (r *Reply[T]) Await(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-r.ch:
		return v.value, v.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Dispatcher submits requests to the generation worker and waits for the
// result. Calls from different goroutines are served in arrival order; each
// blocks only its caller. A cancelled ctx stops the wait, not the work.
type Dispatcher interface {
	CallGraphDiagram(ctx context.Context, sources []string, contractFilter string) (*CallGraphDiagram, error)
	Flowchart(ctx context.Context, sources []string, contractFilter string, noChunk bool, chunkDir string) (*Flowchart, error)
	AllDiagrams(ctx context.Context, sources []string, contractFilter string) (*AllDiagrams, error)
	StorageLayout(ctx context.Context, sources []string, contractName string) (*StorageLayout, error)
	// Shutdown asks the worker to stop after the requests queued ahead of it.
	// It does not wait.
	Shutdown() error
}
