package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natebuckareff/typeck/internal/ast"
)

func TestDefineRejectsRedeclarationInSameScope(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	intData := ast.NewData(repo, "Int", nil, nil)
	require.NoError(t, root.Define("Int", intData, ast.TypeNS))

	dup := ast.NewData(repo, "Int", nil, nil)
	err := root.Define("Int", dup, ast.TypeNS)
	require.Error(t, err)
}

func TestDefineAllowsSharedNameAcrossNamespaces(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	data := ast.NewData(repo, "Pair", nil, nil)
	ctor := ast.NewConstructor(repo, "Pair", nil)

	require.NoError(t, root.Define("Pair", data, ast.TypeNS))
	require.NoError(t, root.Define("Pair", ctor, ast.ValueNS))
}

func TestResolveTypeNameWalksOuterScopes(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)
	intData := ast.NewData(repo, "Int", nil, nil)
	require.NoError(t, root.Define("Int", intData, ast.TypeNS))

	a := ast.NewParam(repo, "a", nil, nil)
	forall := ast.NewForall(repo, []*ast.Param{a}, ast.NewRef(repo, "a"))
	child := root.Enter(forall)

	resolved, err := child.ResolveTypeName("Int")
	require.NoError(t, err)
	assert.Equal(t, ast.NodeID(intData.ID()), resolved.ID())
}

func TestResolveVarInnermostHasSmallerDelta(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	a := ast.NewParam(repo, "a", nil, nil)
	b := ast.NewParam(repo, "b", nil, nil)
	forall := ast.NewForall(repo, []*ast.Param{a, b}, ast.NewRef(repo, "b"))
	child := root.Enter(forall)

	bIdx, ok := child.ResolveVar(b)
	require.True(t, ok)
	aIdx, ok := child.ResolveVar(a)
	require.True(t, ok)

	assert.Equal(t, 0, bIdx, "last-declared param in a shared frame is index 0")
	assert.Equal(t, 1, aIdx)
}

func TestResolveVarCountsOutwardThroughEnclosingFrames(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	outer := ast.NewParam(repo, "o", nil, nil)
	outerForall := ast.NewForall(repo, []*ast.Param{outer}, nil)
	outerCtx := root.Enter(outerForall)

	inner := ast.NewParam(repo, "i", nil, nil)
	innerForall := ast.NewForall(repo, []*ast.Param{inner}, nil)
	innerCtx := outerCtx.Enter(innerForall)

	innerIdx, ok := innerCtx.ResolveVar(inner)
	require.True(t, ok)
	outerIdx, ok := innerCtx.ResolveVar(outer)
	require.True(t, ok)

	assert.Equal(t, 0, innerIdx)
	assert.Equal(t, 1, outerIdx)
}

func TestResolveRefSetsResolvedAndDistinguishesVarFromRef(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)
	intData := ast.NewData(repo, "Int", nil, nil)
	require.NoError(t, root.Define("Int", intData, ast.TypeNS))

	a := ast.NewParam(repo, "a", nil, nil)
	forall := ast.NewForall(repo, []*ast.Param{a}, nil)
	child := root.Enter(forall)

	varRef := ast.NewRef(repo, "a")
	res, err := child.ResolveRef(varRef)
	require.NoError(t, err)
	assert.True(t, res.IsVar)
	assert.Same(t, a, varRef.Resolved)

	entityRef := ast.NewRef(repo, "Int")
	res, err = child.ResolveRef(entityRef)
	require.NoError(t, err)
	assert.False(t, res.IsVar)
	assert.Equal(t, ast.NodeID(intData.ID()), entityRef.Resolved.ID())
}

func TestResolveRefUnboundNameFails(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)
	ref := ast.NewRef(repo, "Ghost")
	_, err := root.ResolveRef(ref)
	require.Error(t, err)
}

func TestNormalizeMemoizesPerNode(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)
	intData := ast.NewData(repo, "Int", nil, nil)
	require.NoError(t, root.Define("Int", intData, ast.TypeNS))

	ref := ast.NewRef(repo, "Int")
	_, err := root.ResolveRef(ref)
	require.NoError(t, err)

	codeA, err := root.Normalize(ref)
	require.NoError(t, err)
	codeB, err := root.Normalize(ref)
	require.NoError(t, err)
	assert.Equal(t, codeA, codeB)
}

func TestDeclareDataRegistersConstructorsInValueNamespace(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	justCtor := ast.NewConstructor(repo, "Just", []ast.Type{ast.NewRef(repo, "a")})
	nothingCtor := ast.NewConstructor(repo, "Nothing", nil)
	a := ast.NewParam(repo, "a", nil, nil)
	maybeData := ast.NewData(repo, "Maybe", []*ast.Param{a}, []*ast.Constructor{justCtor, nothingCtor})

	require.NoError(t, root.Declare(maybeData))

	// Constructors live in the Data's own child scope, in the value
	// namespace, alongside the Data's type-namespace binding at the root.
	child := root.Enter(maybeData)
	resolved, err := child.ResolveValueName("Just")
	require.NoError(t, err)
	assert.Equal(t, ast.NodeID(justCtor.ID()), resolved.ID())

	_, err = root.ResolveTypeName("Maybe")
	require.NoError(t, err)
}

func TestDeclareTraitChecksMethodSignatures(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	selfParam := ast.NewParam(repo, "Self", nil, nil)
	eqMethod := ast.NewMethod(repo, "eq", ast.NewFun(repo, nil, []ast.Type{ast.NewRef(repo, "Self"), ast.NewRef(repo, "Self")}, ast.NewRef(repo, "Bool")))
	trait := ast.NewTrait(repo, "Eq", nil, []*ast.Param{selfParam}, nil, []*ast.Method{eqMethod})

	boolData := ast.NewData(repo, "Bool", nil, nil)
	require.NoError(t, root.Define("Bool", boolData, ast.TypeNS))

	require.NoError(t, root.Declare(trait))

	child := root.Enter(trait)
	_, err := child.ResolveValueName("eq")
	require.NoError(t, err)
}

func TestDeclareRejectsUnresolvedConstraintTrait(t *testing.T) {
	repo := ast.NewRepository()
	root := NewRoot(repo)

	ghostTraitID := ast.NodeID(9999)
	a := ast.NewParam(repo, "a", nil, []ast.ConstraintRef{{Trait: ghostTraitID}})
	alias := ast.NewAlias(repo, "Identity", []*ast.Param{a}, ast.NewRef(repo, "a"))

	err := root.Declare(alias)
	require.Error(t, err)
}
