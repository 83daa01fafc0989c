package dto

// ElementTypeNode and ElementTypeCommentList tag the two element flavors a
// container report can contain.
const (
	ElementTypeNode        = "node"
	ElementTypeCommentList = "comment_list"
)

// GraftRequest describes one attachment run over a set of source files.
type GraftRequest struct {
	Paths    []string `json:"paths"`
	Language string   `json:"language,omitempty"` // overrides per-file detection when set
}

// CommentDTO is one comment token inside a comment list.
type CommentDTO struct {
	Kind string `json:"kind"`
	Pos  uint32 `json:"pos"`
	End  uint32 `json:"end"`
	Text string `json:"text"`
}

// ElementDTO is one entry of a container's attached child sequence.
type ElementDTO struct {
	Type     string       `json:"type"`
	Kind     string       `json:"kind"`
	Pos      uint32       `json:"pos"`
	End      uint32       `json:"end"`
	Comments []CommentDTO `json:"comments,omitempty"`
}

// ContainerReport is the attached member sequence of one container node.
type ContainerReport struct {
	Kind     string       `json:"kind"`
	Pos      uint32       `json:"pos"`
	End      uint32       `json:"end"`
	Elements []ElementDTO `json:"elements"`
}

// FileReport is the attachment result for one source file.
type FileReport struct {
	Path             string            `json:"path"`
	Language         string            `json:"language"`
	NodeCount        int               `json:"node_count"`
	CommentListCount int               `json:"comment_list_count"`
	Containers       []ContainerReport `json:"containers"`
}

// FileError records a file that could not be processed.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// GraftResult aggregates per-file reports for one run.
type GraftResult struct {
	Files  []FileReport `json:"files"`
	Errors []FileError  `json:"errors,omitempty"`
}
