package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/scope"
	"github.com/natebuckareff/typeck/internal/typecode"
)

func newFixture(t *testing.T) (*ast.Repository, *scope.Context, *ast.Data, *ast.Data) {
	t.Helper()
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)
	intData := ast.NewData(repo, "Int", nil, nil)
	boolData := ast.NewData(repo, "Bool", nil, nil)
	require.NoError(t, root.Define("Int", intData, ast.TypeNS))
	require.NoError(t, root.Define("Bool", boolData, ast.TypeNS))
	return repo, root, intData, boolData
}

func ref(repo *ast.Repository, name string, e ast.Entity) *ast.Ref {
	r := ast.NewRef(repo, name)
	r.Resolved = e
	return r
}

func TestUnifyIdenticalRefsSucceed(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	u := New(root, nil)
	state := NewState()

	err := u.Unify(ref(repo, "Int", intData), ref(repo, "Int", intData), state)
	assert.NoError(t, err)
}

func TestUnifyDifferentRefsFail(t *testing.T) {
	repo, root, intData, boolData := newFixture(t)
	u := New(root, nil)
	state := NewState()

	err := u.Unify(ref(repo, "Int", intData), ref(repo, "Bool", boolData), state)
	assert.Error(t, err)
}

func TestUnifyAssignsUnboundHole(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	u := New(root, nil)
	state := NewState()

	h := ast.NewHole(repo)
	require.NoError(t, u.Unify(h, ref(repo, "Int", intData), state))

	assigned, ok := state.Lookup(h)
	require.True(t, ok)
	assert.Same(t, intData, assigned.(*ast.Ref).Resolved)
}

func TestUnifyTwoUnassignedHolesFailUnlessSameIdentity(t *testing.T) {
	repo, root, _, _ := newFixture(t)
	u := New(root, nil)

	h1 := ast.NewHole(repo)
	h2 := ast.NewHole(repo)

	state := NewState()
	assert.Error(t, u.Unify(h1, h2, state), "bottom cannot stand for bottom")

	state2 := NewState()
	assert.NoError(t, u.Unify(h1, h1, state2), "a hole unified with itself is trivially consistent")
}

func TestUnifyAlreadyAssignedHoleUnifiesItsValue(t *testing.T) {
	repo, root, intData, boolData := newFixture(t)
	u := New(root, nil)
	state := NewState()

	h := ast.NewHole(repo)
	state.Assign(h, ref(repo, "Int", intData))

	assert.NoError(t, u.Unify(h, ref(repo, "Int", intData), state))
	assert.Error(t, u.Unify(h, ref(repo, "Bool", boolData), state))
}

func TestUnifyOccursCheckRejectsInfiniteType(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	u := New(root, nil)
	state := NewState()

	h := ast.NewHole(repo)
	intRef := ref(repo, "Int", intData)
	cycle := ast.NewTuple(repo, []ast.Type{h, intRef})

	err := u.Unify(h, cycle, state)
	assert.Error(t, err)
}

func TestUnifyTupleArityMismatch(t *testing.T) {
	repo, root, intData, boolData := newFixture(t)
	u := New(root, nil)
	state := NewState()

	pair := ast.NewTuple(repo, []ast.Type{ref(repo, "Int", intData), ref(repo, "Bool", boolData)})
	single := ast.NewTuple(repo, []ast.Type{ref(repo, "Int", intData)})

	err := u.Unify(pair, single, state)
	require.Error(t, err)
}

func TestUnifyFunParametersAreContravariantButStillEqual(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	u := New(root, nil)
	state := NewState()

	f1 := ast.NewFun(repo, nil, []ast.Type{ref(repo, "Int", intData)}, ref(repo, "Int", intData))
	f2 := ast.NewFun(repo, nil, []ast.Type{ref(repo, "Int", intData)}, ref(repo, "Int", intData))

	assert.NoError(t, u.Unify(f1, f2, state))
}

func TestUnifyFunParameterHoleGetsAssignedThroughSwap(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	u := New(root, nil)
	state := NewState()

	h := ast.NewHole(repo)
	f1 := ast.NewFun(repo, nil, []ast.Type{h}, ref(repo, "Int", intData))
	f2 := ast.NewFun(repo, nil, []ast.Type{ref(repo, "Int", intData)}, ref(repo, "Int", intData))

	require.NoError(t, u.Unify(f1, f2, state))
	assigned, ok := state.Lookup(h)
	require.True(t, ok)
	assert.Same(t, intData, assigned.(*ast.Ref).Resolved)
}

func TestInstantiateFunBodyCapturesParameterInstances(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	u := New(root, nil)
	state := NewState()

	a := ast.NewParam(repo, "a", nil, nil)
	aOccurrence1 := ast.NewRef(repo, "a")
	aOccurrence1.Resolved = a
	aOccurrence2 := ast.NewRef(repo, "a")
	aOccurrence2.Resolved = a
	generic := ast.NewForall(repo, []*ast.Param{a}, ast.NewFun(repo, nil, []ast.Type{aOccurrence1}, aOccurrence2))

	concrete := ast.NewFun(repo, nil, []ast.Type{ref(repo, "Int", intData)}, ref(repo, "Int", intData))

	require.NoError(t, u.Unify(generic, concrete, state))

	captures := state.Captures(a)
	require.Len(t, captures, 2, "a's parameter occurrence and return occurrence each capture Int")
	for _, c := range captures {
		assert.Same(t, intData, c.(*ast.Ref).Resolved)
	}
}

func TestInstantiateExistentialOnlyMatchesItself(t *testing.T) {
	repo, root, _, _ := newFixture(t)
	u := New(root, nil)

	a := ast.NewParam(repo, "a", nil, nil)
	aOcc := ast.NewRef(repo, "a")
	aOcc.Resolved = a
	// Not a Fun body: instantiate treats this as an existential package, so
	// its parameter gets an opaque skolem rather than a flexible Hole.
	existential := ast.NewForall(repo, []*ast.Param{a}, aOcc)

	state := NewState()
	assert.NoError(t, u.Unify(existential, existential, state), "the same existential compared against itself must unify")

	b := ast.NewParam(repo, "b", nil, nil)
	bOcc := ast.NewRef(repo, "b")
	bOcc.Resolved = b
	otherExistential := ast.NewForall(repo, []*ast.Param{b}, bOcc)

	state2 := NewState()
	assert.Error(t, u.Unify(existential, otherExistential, state2), "two distinct existentials must not unify")
}

func TestImplIndexCoherence(t *testing.T) {
	repo, root, intData, _ := newFixture(t)
	eqTrait := ast.NewTrait(repo, "Eq", nil, nil, nil, nil)

	idx := NewImplIndex()
	intCode, err := root.Normalize(ref(repo, "Int", intData))
	require.NoError(t, err)
	traitCode, err := typecode.ConstraintCode(ast.ConstraintRef{Trait: eqTrait.ID()}, root)
	require.NoError(t, err)

	impl := &Impl{Trait: eqTrait.ID(), Type: ref(repo, "Int", intData)}
	require.NoError(t, idx.Define(impl, traitCode, intCode))

	dup := &Impl{Trait: eqTrait.ID(), Type: ref(repo, "Int", intData)}
	err = idx.Define(dup, traitCode, intCode)
	require.Error(t, err)

	found, ok := idx.Lookup(traitCode, intCode)
	require.True(t, ok)
	assert.Same(t, impl, found)
}
