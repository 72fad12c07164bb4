package writeplan

// Kind discriminates the three write instruction variants.
type Kind int

const (
	// MergeDocument shallow-merges a patch into a document column.
	MergeDocument Kind = iota
	// SetDocumentKey sets one key inside a document column, creating the
	// document if absent. Merge at the single path, never a replace of
	// the whole document.
	SetDocumentKey
	// SetScalar assigns a plain column directly.
	SetScalar
)

func (k Kind) String() string {
	switch k {
	case MergeDocument:
		return "merge_document"
	case SetDocumentKey:
		return "set_document_key"
	case SetScalar:
		return "set_scalar"
	}
	return "unknown"
}

// Instruction is one storage write step. Instructions are applied in
// slice order, atomically as one transaction; when two instructions
// target the same column the last applied wins.
type Instruction struct {
	Kind   Kind
	Column string
	// Key is set for SetDocumentKey only.
	Key string
	// Value is set for SetDocumentKey and SetScalar.
	Value interface{}
	// Patch is set for MergeDocument only.
	Patch map[string]interface{}
}
