package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natebuckareff/typeck/internal/ast"
)

func TestParamKindDefaultsToStar(t *testing.T) {
	repo := ast.NewRepository()
	p := ast.NewParam(repo, "a", nil, nil)
	assert.Equal(t, Concrete, ParamKind(p))
}

func TestParamKindUsesDeclared(t *testing.T) {
	repo := ast.NewRepository()
	functorKind := Arrow{From: Concrete, To: Concrete}
	p := ast.NewParam(repo, "f", functorKind, nil)
	assert.Equal(t, functorKind, ParamKind(p))
}

func TestEntityKindFromParamCount(t *testing.T) {
	repo := ast.NewRepository()
	a := ast.NewParam(repo, "a", nil, nil)
	b := ast.NewParam(repo, "b", nil, nil)
	data := ast.NewData(repo, "Pair", []*ast.Param{a, b}, nil)
	assert.Equal(t, "(* -> (* -> *))", EntityKind(data).String())

	empty := ast.NewData(repo, "Unit0", nil, nil)
	assert.Equal(t, Concrete, EntityKind(empty))
}

func TestOfRefToParam(t *testing.T) {
	repo := ast.NewRepository()
	p := ast.NewParam(repo, "a", nil, nil)
	ref := ast.NewRef(repo, "a")
	ref.Resolved = p

	k, ok := Of(ref, NewEnv())
	require.True(t, ok)
	assert.Equal(t, Concrete, k)
}

func TestOfApplyChecksArgumentKindNotItself(t *testing.T) {
	// The fixed defect: applying a functor F<*->*> to an argument of kind
	// (* -> *) must compare the PARAMETER's kind against the ARGUMENT's
	// kind, never the parameter's kind against itself (which would make
	// every application trivially well-kinded).
	repo := ast.NewRepository()
	// f : (* -> *) -> *  (a rank-2-ish "higher kinded" parameter, like a
	// trait method quantifying over a functor).
	hktParam := Arrow{From: Arrow{From: Concrete, To: Concrete}, To: Concrete}
	functorParam := ast.NewParam(repo, "f", hktParam, nil)
	listData := ast.NewData(repo, "List", []*ast.Param{ast.NewParam(repo, "a", nil, nil)}, nil)

	fRef := ast.NewRef(repo, "f")
	fRef.Resolved = functorParam

	listRef := ast.NewRef(repo, "List")
	listRef.Resolved = listData

	// f applied to List: List's own kind is (* -> *), matching what f
	// wants -- well-kinded.
	apply := ast.NewApply(repo, fRef, []ast.Type{listRef})
	k, ok := Of(apply, NewEnv())
	require.True(t, ok)
	assert.Equal(t, Concrete, k)

	// f applied to Int: Int's kind is *, but f wants (* -> *) -- the bug
	// this guards against would compare f's parameter kind against ITSELF
	// and wrongly accept this.
	intData := ast.NewData(repo, "Int", nil, nil)
	intRef := ast.NewRef(repo, "Int")
	intRef.Resolved = intData
	badApply := ast.NewApply(repo, fRef, []ast.Type{intRef})
	_, ok = Of(badApply, NewEnv())
	assert.False(t, ok, "f wants a (* -> *) argument, Int has kind *")
}

func TestCheckUnresolvedRefFails(t *testing.T) {
	repo := ast.NewRepository()
	ref := ast.NewRef(repo, "Missing")
	err := Check(ref, NewEnv())
	require.Error(t, err)
}

func TestCheckToleratesUnfilledHoleArgument(t *testing.T) {
	repo := ast.NewRepository()
	functorParam := ast.NewParam(repo, "f", Arrow{From: Concrete, To: Concrete}, nil)
	fRef := ast.NewRef(repo, "f")
	fRef.Resolved = functorParam

	hole := ast.NewHole(repo)
	apply := ast.NewApply(repo, fRef, []ast.Type{hole})
	assert.NoError(t, Check(apply, NewEnv()))
}
