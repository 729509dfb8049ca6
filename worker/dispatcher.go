package worker

import (
	"context"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Dispatcher = (*Dispatcher)(nil)

// Dispatcher implements traverse.Dispatcher on top of a Queue.
type Dispatcher struct {
	queue *Queue
}

// NewDispatcher creates a Dispatcher that pushes onto queue.
func NewDispatcher(queue *Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

// CallGraphDiagram requests a Graphviz rendering of the sources' call graph.
func (d *Dispatcher) CallGraphDiagram(ctx context.Context, sources []string, contractFilter string) (*traverse.CallGraphDiagram, error) {
	reply := traverse.NewReply[*traverse.CallGraphDiagram]()
	return submit(ctx, d.queue, &traverse.CallGraphRequest{
		Sources:        sources,
		ContractFilter: contractFilter,
		Reply:          reply,
	}, reply)
}

// Flowchart requests a sequence diagram. An empty chunkDir selects the
// worker's default directory.
func (d *Dispatcher) Flowchart(ctx context.Context, sources []string, contractFilter string, noChunk bool, chunkDir string) (*traverse.Flowchart, error) {
	reply := traverse.NewReply[*traverse.Flowchart]()
	return submit(ctx, d.queue, &traverse.FlowchartRequest{
		Sources:        sources,
		ContractFilter: contractFilter,
		NoChunk:        noChunk,
		ChunkDir:       chunkDir,
		Reply:          reply,
	}, reply)
}

// AllDiagrams requests both diagrams from a single build.
func (d *Dispatcher) AllDiagrams(ctx context.Context, sources []string, contractFilter string) (*traverse.AllDiagrams, error) {
	reply := traverse.NewReply[*traverse.AllDiagrams]()
	return submit(ctx, d.queue, &traverse.AllDiagramsRequest{
		Sources:        sources,
		ContractFilter: contractFilter,
		Reply:          reply,
	}, reply)
}

// StorageLayout requests the storage access report.
func (d *Dispatcher) StorageLayout(ctx context.Context, sources []string, contractName string) (*traverse.StorageLayout, error) {
	reply := traverse.NewReply[*traverse.StorageLayout]()
	return submit(ctx, d.queue, &traverse.StorageLayoutRequest{
		Sources:      sources,
		ContractName: contractName,
		Reply:        reply,
	}, reply)
}

// Shutdown enqueues a stop message behind any pending requests.
func (d *Dispatcher) Shutdown() error {
	return d.queue.Push(&traverse.Shutdown{})
}

func submit[T any](ctx context.Context, q *Queue, req traverse.Request, reply *traverse.Reply[T]) (T, error) {
	if err := q.Push(req); err != nil {
		var zero T
		return zero, err
	}
	return reply.Await(ctx)
}
