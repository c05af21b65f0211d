package unify

import (
	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/checkerr"
	"github.com/natebuckareff/typeck/internal/typecode"
)

// Impl records one "impl Trait<Args...> for Type" declaration: the
// canonical code of the trait application being implemented is the key
// ImplIndex looks impls up by.
type Impl struct {
	Trait     ast.NodeID
	Type      ast.Type
	TraitArgs []ast.Type
	Methods   map[string]ast.NodeID // method name -> the Method entity providing it
}

// ImplIndex is the two-level TraitCode -> TypeCode -> Impl map: Define
// performs an overlap/coherence check (one instance per application+type),
// keyed not by a bare Trait id but by a canonical TypeCode of the full
// trait application (so "impl Convert<Bool> for Int" and
// "impl Convert<String> for Int" are correctly distinguished even though
// both constrain Int against the same Convert trait).
type ImplIndex struct {
	byTrait map[typecode.Code]map[typecode.Code]*Impl
}

// NewImplIndex creates an empty coherence index.
func NewImplIndex() *ImplIndex {
	return &ImplIndex{byTrait: make(map[typecode.Code]map[typecode.Code]*Impl)}
}

// Define adds impl to the index, keyed by the canonical code of its full
// trait application (traitCode) and the canonical code of the implementing
// type (typeCode), failing with checkerr.OverlappingImpl if another impl is
// already registered for the same pair.
func (idx *ImplIndex) Define(impl *Impl, traitCode, typeCode typecode.Code) error {
	byType, ok := idx.byTrait[traitCode]
	if !ok {
		byType = make(map[typecode.Code]*Impl)
		idx.byTrait[traitCode] = byType
	}
	if _, exists := byType[typeCode]; exists {
		return checkerr.NewOverlappingImpl(implName(impl))
	}
	byType[typeCode] = impl
	return nil
}

// Lookup finds the impl registered for the trait application whose
// canonical code is traitCode, against the type whose canonical code is
// typeCode.
func (idx *ImplIndex) Lookup(traitCode, typeCode typecode.Code) (*Impl, bool) {
	byType, ok := idx.byTrait[traitCode]
	if !ok {
		return nil, false
	}
	impl, ok := byType[typeCode]
	return impl, ok
}

func implName(impl *Impl) string {
	if ref, ok := impl.Type.(*ast.Ref); ok {
		return ref.Name
	}
	return impl.Type.String()
}
