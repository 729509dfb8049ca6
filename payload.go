package traverse

// CallGraphDiagram is the result of a call-graph diagram request.
type CallGraphDiagram struct {
	DOT string `json:"dot"`
}

// Chunk is one numbered piece of a chunked sequence diagram.
type Chunk struct {
	ID       int    `json:"id"`       // 1-based position
	Content  string `json:"content"`  // Complete, standalone diagram text
	Filename string `json:"filename"` // Base name of the chunk file
}

// ChunkSet describes the chunk files written for one diagram.
type ChunkSet struct {
	Dir    string
	Chunks []Chunk
}

// Flowchart is the result of a sequence-diagram request.
// When IsChunked is false, Chunks and ChunkDir are empty.
type Flowchart struct {
	Mermaid   string  `json:"mermaid"`
	IsChunked bool    `json:"is_chunked"`
	Chunks    []Chunk `json:"chunks,omitempty"`
	ChunkDir  string  `json:"chunk_dir,omitempty"`
}

// AllDiagrams is the result of a combined request. ChunkDir is nil when the
// sequence diagram was not chunked.
type AllDiagrams struct {
	DOT       string  `json:"dot"`
	Mermaid   string  `json:"mermaid"`
	IsChunked bool    `json:"is_chunked"`
	ChunkDir  *string `json:"chunk_dir"`
}

// StorageLayout is the result of a storage layout request.
type StorageLayout struct {
	Markdown  string
	FileCount int
}
