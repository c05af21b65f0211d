package fixtures

import (
	"fmt"

	"github.com/natebuckareff/typeck/internal/ast"
	"github.com/natebuckareff/typeck/internal/kind"
	"github.com/natebuckareff/typeck/internal/scope"
	"github.com/natebuckareff/typeck/internal/typecode"
	"github.com/natebuckareff/typeck/internal/unify"
)

// Registry maps a Scenario.Kind to the builder that constructs the fixture
// from scratch and exercises it, returning the error (if any) the exercised
// operation produced. Each entry corresponds to one of the concrete
// scenarios this checker core is expected to satisfy.
var Registry = map[string]func() error{
	"unify_shared_instance":     unifySharedInstance,
	"round_trip_forall_list":    roundTripForallList,
	"redeclaration":             redeclaration,
	"contravariant_params":      contravariantParams,
	"apply_kind_mismatch":       applyKindMismatch,
	"constraint_not_discharged": constraintNotDischarged,
}

// unifySharedInstance: ∀T.∀U.(T,U)→U unifies with ∀X.(X,X)→X.
func unifySharedInstance() error {
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)

	tParam := ast.NewParam(repo, "T", nil, nil)
	uParam := ast.NewParam(repo, "U", nil, nil)
	tOcc := ast.NewRef(repo, "T")
	tOcc.Resolved = tParam
	uOcc := ast.NewRef(repo, "U")
	uOcc.Resolved = uParam
	left := ast.NewForall(repo, []*ast.Param{tParam, uParam},
		ast.NewFun(repo, nil, []ast.Type{tOcc, uOcc}, uOcc))

	xParam := ast.NewParam(repo, "X", nil, nil)
	xOcc1 := ast.NewRef(repo, "X")
	xOcc1.Resolved = xParam
	xOcc2 := ast.NewRef(repo, "X")
	xOcc2.Resolved = xParam
	xOcc3 := ast.NewRef(repo, "X")
	xOcc3.Resolved = xParam
	right := ast.NewForall(repo, []*ast.Param{xParam},
		ast.NewFun(repo, nil, []ast.Type{xOcc1, xOcc2}, xOcc3))

	u := unify.New(root, nil)
	state := unify.NewState()
	if err := u.Unify(left, right, state); err != nil {
		return err
	}

	tCaptures := state.Captures(tParam)
	uCaptures := state.Captures(uParam)
	if len(tCaptures) == 0 || len(uCaptures) == 0 {
		return fmt.Errorf("expected T and U to each capture an instance of X")
	}
	// The headline invariant of this scenario: T's and U's captured
	// instances must themselves be mutually consistent, not merely
	// individually present. Reusing state (rather than a fresh one) keeps
	// the X/T/U frames this unification pushed in scope, so bound-param
	// occurrences among the captures are still resolved through rule 1
	// rather than compared by raw identity.
	for _, ct := range tCaptures {
		for _, cu := range uCaptures {
			if err := u.Unify(ct, cu, state); err != nil {
				return fmt.Errorf("T's and U's captured instances are inconsistent: %w", err)
			}
		}
	}
	return nil
}

// roundTripForallList: compiling ∀T:*. List<T> then decoding yields a body
// of shape Apply(Ref List, Var 0).
func roundTripForallList() error {
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)

	elemParam := ast.NewParam(repo, "a", nil, nil)
	listData := ast.NewData(repo, "List", []*ast.Param{elemParam}, nil)
	if err := root.Declare(listData); err != nil {
		return err
	}

	tParam := ast.NewParam(repo, "T", kind.Concrete, nil)
	listRef := ast.NewRef(repo, "List")
	tRef := ast.NewRef(repo, "T")
	forall := ast.NewForall(repo, []*ast.Param{tParam}, ast.NewApply(repo, listRef, []ast.Type{tRef}))

	child := root.Enter(forall)
	if _, err := child.ResolveRef(listRef); err != nil {
		return err
	}
	if _, err := child.ResolveRef(tRef); err != nil {
		return err
	}

	code, err := child.Normalize(forall)
	if err != nil {
		return err
	}
	decoded, _, err := typecode.Decode(code, 0)
	if err != nil {
		return err
	}
	df, ok := decoded.(typecode.DForall)
	if !ok {
		return fmt.Errorf("expected DForall, got %T", decoded)
	}
	apply, ok := df.Body.(typecode.DApply)
	if !ok {
		return fmt.Errorf("expected forall body to be DApply, got %T", df.Body)
	}
	if _, ok := apply.Head.(typecode.DRef); !ok {
		return fmt.Errorf("expected apply head to be DRef, got %T", apply.Head)
	}
	if len(apply.Args) != 1 {
		return fmt.Errorf("expected exactly one apply argument, got %d", len(apply.Args))
	}
	if v, ok := apply.Args[0].(typecode.DVar); !ok || v.Index != 0 {
		return fmt.Errorf("expected sole argument to be Var 0, got %#v", apply.Args[0])
	}
	return nil
}

// redeclaration: defining two entities named X in the same scope raises
// Redeclaration on the second call.
func redeclaration() error {
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)

	first := ast.NewData(repo, "X", nil, nil)
	if err := root.Define("X", first, ast.TypeNS); err != nil {
		return err
	}
	second := ast.NewData(repo, "X", nil, nil)
	return root.Define("X", second, ast.TypeNS)
}

// contravariantParams: unify((A,B)->C, (X,Y)->Z) swaps for params, preserves
// for return, succeeding with A<->X, B<->Y, C<->Z pinned via holes.
func contravariantParams() error {
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)

	intData := ast.NewData(repo, "Int", nil, nil)
	boolData := ast.NewData(repo, "Bool", nil, nil)
	strData := ast.NewData(repo, "String", nil, nil)
	if err := root.Define("Int", intData, ast.TypeNS); err != nil {
		return err
	}
	if err := root.Define("Bool", boolData, ast.TypeNS); err != nil {
		return err
	}
	if err := root.Define("String", strData, ast.TypeNS); err != nil {
		return err
	}
	namedRef := func(name string, e ast.Entity) *ast.Ref {
		r := ast.NewRef(repo, name)
		r.Resolved = e
		return r
	}

	hA, hB, hC := ast.NewHole(repo), ast.NewHole(repo), ast.NewHole(repo)
	left := ast.NewFun(repo, nil, []ast.Type{hA, hB}, hC)
	right := ast.NewFun(repo, nil,
		[]ast.Type{namedRef("Int", intData), namedRef("Bool", boolData)},
		namedRef("String", strData))

	u := unify.New(root, nil)
	state := unify.NewState()
	if err := u.Unify(left, right, state); err != nil {
		return err
	}
	assigned, ok := state.Lookup(hA)
	if !ok || assigned.(*ast.Ref).Resolved != intData {
		return fmt.Errorf("expected A to be pinned to Int")
	}
	assigned, ok = state.Lookup(hB)
	if !ok || assigned.(*ast.Ref).Resolved != boolData {
		return fmt.Errorf("expected B to be pinned to Bool")
	}
	assigned, ok = state.Lookup(hC)
	if !ok || assigned.(*ast.Ref).Resolved != strData {
		return fmt.Errorf("expected C to be pinned to String")
	}
	return nil
}

// applyKindMismatch: applying Int (kind *) to another type fails kind
// checking rather than succeeding structurally.
func applyKindMismatch() error {
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)

	intData := ast.NewData(repo, "Int", nil, nil)
	boolData := ast.NewData(repo, "Bool", nil, nil)
	if err := root.Define("Int", intData, ast.TypeNS); err != nil {
		return err
	}
	if err := root.Define("Bool", boolData, ast.TypeNS); err != nil {
		return err
	}

	intRef := ast.NewRef(repo, "Int")
	intRef.Resolved = intData
	boolRef := ast.NewRef(repo, "Bool")
	boolRef.Resolved = boolData
	applied := ast.NewApply(repo, intRef, []ast.Type{boolRef})

	return kind.Check(applied, kind.NewEnv())
}

// constraintNotDischarged: instantiating a constrained parameter with a type
// lacking the required impl fails with "constraint not discharged".
func constraintNotDischarged() error {
	repo := ast.NewRepository()
	root := scope.NewRoot(repo)

	showTrait := ast.NewTrait(repo, "Show", nil, nil, nil, nil)
	intData := ast.NewData(repo, "Int", nil, nil)
	if err := root.Define("Int", intData, ast.TypeNS); err != nil {
		return err
	}

	intRef := ast.NewRef(repo, "Int")
	intRef.Resolved = intData

	idData := ast.NewData(repo, "Box", []*ast.Param{
		ast.NewParam(repo, "a", nil, []ast.ConstraintRef{{Trait: showTrait.ID()}}),
	}, nil)
	if err := root.Define("Box", idData, ast.TypeNS); err != nil {
		return err
	}
	boxRef := ast.NewRef(repo, "Box")
	boxRef.Resolved = idData
	boxRef2 := ast.NewRef(repo, "Box")
	boxRef2.Resolved = idData

	// lhs carries an unresolved hole rather than Int directly: unifying it
	// against rhs's Int argument is what drives the hole's assignment and
	// the subsequent discharge check, since two structurally identical
	// Applys would short-circuit via the top-level reflexivity fast path
	// before ever reaching unifyApply's per-argument discharge.
	hole := ast.NewHole(repo)
	lhs := ast.NewApply(repo, boxRef, []ast.Type{hole})
	rhs := ast.NewApply(repo, boxRef2, []ast.Type{intRef})

	// No impl of Show for Int is ever registered in the index, so discharge
	// must fail even though Int itself is a perfectly well-formed type.
	u := unify.New(root, unify.NewImplIndex())
	return u.Unify(lhs, rhs, unify.NewState())
}
