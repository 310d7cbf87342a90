package ast

import (
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// isConstant reports whether n is one of the built-in constant leaves —
// used by organizeOperands to decide master/slave per spec.md §3.
func isConstant(n Node) bool {
	switch n.(type) {
	case *ConstantString, *ConstantNumber, *ConstantSet:
		return true
	default:
		return false
	}
}

// organizeRelational applies spec.md §3's master/slave rule for
// relational/equality/membership operators: "If exactly one side is a
// constant and the other is variable/function, the variable/function
// becomes master... Otherwise left-hand stays master." It reports whether
// the operands were swapped, so inequality constructors can invert their
// comparator direction to preserve semantics.
func organizeRelational(left, right Node) (master, slave Node, swapped bool) {
	leftConst, rightConst := isConstant(left), isConstant(right)
	if leftConst && !rightConst {
		return right, left, true
	}
	return left, right, false
}

// --- Not -------------------------------------------------------------

type Not struct {
	BaseBranch
	Operand Node
}

func NewNot(operand Node) (*Not, error) {
	if !operand.Tags().Has(datatype.Boolean) {
		return nil, boolerr.New(boolerr.InvalidOperation, "not: operand must implement Boolean")
	}
	return &Not{Operand: operand}, nil
}

func (n *Not) Kind() Kind                 { return KindNot }
func (n *Not) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *Not) PreferredTag() datatype.Tag { return datatype.Boolean }

func (n *Not) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	v, err := valueOf(n.Operand, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	return !v.Bool, nil
}

func (n *Not) Equals(other Node) bool {
	o, ok := other.(*Not)
	return ok && o.Operand.Equals(n.Operand)
}

func (n *Not) fold(conv Converter) any { return conv.Not(n.Operand.fold(conv)) }

// --- binary base -------------------------------------------------------

type binary struct {
	BaseBranch
	Master, Slave Node
}

func (b *binary) commutativeEquals(other *binary) bool {
	if b.Master.Equals(other.Master) && b.Slave.Equals(other.Slave) {
		return true
	}
	return b.Master.Equals(other.Slave) && b.Slave.Equals(other.Master)
}

// --- And / Or / Xor (logical connectives) ------------------------------

type And struct{ binary }
type Or struct{ binary }
type Xor struct{ binary }

func requireBoolean(op string, operands ...Node) error {
	for _, o := range operands {
		if !o.Tags().Has(datatype.Boolean) {
			return boolerr.New(boolerr.InvalidOperation, "%s: both operands must implement Boolean", op)
		}
	}
	return nil
}

func NewAnd(left, right Node) (*And, error) {
	if err := requireBoolean("and", left, right); err != nil {
		return nil, err
	}
	return &And{binary{Master: left, Slave: right}}, nil
}
func NewOr(left, right Node) (*Or, error) {
	if err := requireBoolean("or", left, right); err != nil {
		return nil, err
	}
	return &Or{binary{Master: left, Slave: right}}, nil
}
func NewXor(left, right Node) (*Xor, error) {
	if err := requireBoolean("xor", left, right); err != nil {
		return nil, err
	}
	return &Xor{binary{Master: left, Slave: right}}, nil
}

func (n *And) Kind() Kind                 { return KindAnd }
func (n *And) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *And) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *And) Equals(other Node) bool {
	o, ok := other.(*And)
	return ok && n.commutativeEquals(&o.binary)
}
func (n *And) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	mv, err := valueOf(n.Master, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	if !mv.Bool {
		return false, nil // short-circuit: slave not consulted
	}
	sv, err := valueOf(n.Slave, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	return sv.Bool, nil
}
func (n *And) fold(conv Converter) any { return conv.And(n.Master.fold(conv), n.Slave.fold(conv)) }

func (n *Or) Kind() Kind                 { return KindOr }
func (n *Or) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *Or) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *Or) Equals(other Node) bool {
	o, ok := other.(*Or)
	return ok && n.commutativeEquals(&o.binary)
}
func (n *Or) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	mv, err := valueOf(n.Master, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	if mv.Bool {
		return true, nil // short-circuit: slave not consulted
	}
	sv, err := valueOf(n.Slave, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	return sv.Bool, nil
}
func (n *Or) fold(conv Converter) any { return conv.Or(n.Master.fold(conv), n.Slave.fold(conv)) }

func (n *Xor) Kind() Kind                 { return KindXor }
func (n *Xor) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *Xor) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *Xor) Equals(other Node) bool {
	o, ok := other.(*Xor)
	return ok && n.commutativeEquals(&o.binary)
}
func (n *Xor) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	mv, err := valueOf(n.Master, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	sv, err := valueOf(n.Slave, datatype.Boolean, ctx)
	if err != nil {
		return false, err
	}
	return mv.Bool != sv.Bool, nil
}
func (n *Xor) fold(conv Converter) any { return conv.Xor(n.Master.fold(conv), n.Slave.fold(conv)) }

// --- Equal / NotEqual ----------------------------------------------------

type Equal struct{ binary }
type NotEqual struct{ binary }

// NewEqual applies master/slave organisation (spec.md §3) then builds the
// node; Equal/NotEqual impose no datatype requirement beyond both sides
// being operands.
func NewEqual(left, right Node) (*Equal, error) {
	master, slave, _ := organizeRelational(left, right)
	return &Equal{binary{Master: master, Slave: slave}}, nil
}
func NewNotEqual(left, right Node) (*NotEqual, error) {
	master, slave, _ := organizeRelational(left, right)
	return &NotEqual{binary{Master: master, Slave: slave}}, nil
}

// hostImpl returns the host Operand behind a bound variable, so that an
// Equaler/Comparer the host implements is found; any other node is
// returned unchanged.
func hostImpl(n Node) any {
	if bv, ok := n.(*BoundVariable); ok {
		return bv.Impl
	}
	return n
}

func equalValue(master, slave Node, ctx datatype.Context) (bool, error) {
	pref := master.PreferredTag()
	sv, err := valueOf(slave, pref, ctx)
	if err != nil {
		return false, err
	}
	if eq, ok := hostImpl(master).(datatype.Equaler); ok {
		return eq.EqualsValue(sv), nil
	}
	mv, err := valueOf(master, pref, ctx)
	if err != nil {
		return false, err
	}
	return mv.Equal(sv), nil
}

func (n *Equal) Kind() Kind                 { return KindEqual }
func (n *Equal) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *Equal) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *Equal) Equals(other Node) bool {
	o, ok := other.(*Equal)
	return ok && n.commutativeEquals(&o.binary)
}
func (n *Equal) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	return equalValue(n.Master, n.Slave, ctx)
}
func (n *Equal) fold(conv Converter) any { return conv.Equal(n.Master.fold(conv), n.Slave.fold(conv)) }

func (n *NotEqual) Kind() Kind                 { return KindNotEqual }
func (n *NotEqual) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *NotEqual) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *NotEqual) Equals(other Node) bool {
	o, ok := other.(*NotEqual)
	return ok && n.commutativeEquals(&o.binary)
}
func (n *NotEqual) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	eq, err := equalValue(n.Master, n.Slave, ctx)
	if err != nil {
		return false, err
	}
	return !eq, nil
}
func (n *NotEqual) fold(conv Converter) any {
	return conv.NotEqual(n.Master.fold(conv), n.Slave.fold(conv))
}

// --- LessThan / GreaterThan / LessEqual / GreaterEqual --------------------

type LessThan struct{ binary }
type GreaterThan struct{ binary }
type LessEqual struct{ binary }
type GreaterEqual struct{ binary }

// NewLessThan and NewGreaterThan apply spec.md §3's inequality rule: if
// organizing operands requires a swap, the comparator direction inverts at
// construction so the original semantics are preserved (a < b ↔ b > a).
func NewLessThan(left, right Node) (Node, error) {
	master, slave, swapped := organizeRelational(left, right)
	if err := requireNumberMaster(master); err != nil {
		return nil, err
	}
	if swapped {
		return &GreaterThan{binary{Master: master, Slave: slave}}, nil
	}
	return &LessThan{binary{Master: master, Slave: slave}}, nil
}

func NewGreaterThan(left, right Node) (Node, error) {
	master, slave, swapped := organizeRelational(left, right)
	if err := requireNumberMaster(master); err != nil {
		return nil, err
	}
	if swapped {
		return &LessThan{binary{Master: master, Slave: slave}}, nil
	}
	return &GreaterThan{binary{Master: master, Slave: slave}}, nil
}

// NewLessEqual builds ¬GreaterThan(master, slave) and NewGreaterEqual
// builds ¬LessThan(master, slave), per spec.md §4.2.
func NewLessEqual(left, right Node) (*LessEqual, error) {
	master, slave, swapped := organizeRelational(left, right)
	if err := requireNumberMaster(master); err != nil {
		return nil, err
	}
	if swapped {
		master, slave = slave, master
	}
	return &LessEqual{binary{Master: master, Slave: slave}}, nil
}

func NewGreaterEqual(left, right Node) (*GreaterEqual, error) {
	master, slave, swapped := organizeRelational(left, right)
	if err := requireNumberMaster(master); err != nil {
		return nil, err
	}
	if swapped {
		master, slave = slave, master
	}
	return &GreaterEqual{binary{Master: master, Slave: slave}}, nil
}

func requireNumberMaster(master Node) error {
	if !master.Tags().Has(datatype.Number) {
		return boolerr.New(boolerr.InvalidOperation, "relational operator: master operand must implement Number")
	}
	return nil
}

func numericCompare(master, slave Node, ctx datatype.Context) (mv float64, sv float64, err error) {
	sVal, err := valueOf(slave, datatype.Number, ctx)
	if err != nil {
		return 0, 0, err
	}
	mVal, err := valueOf(master, datatype.Number, ctx)
	if err != nil {
		return 0, 0, err
	}
	return mVal.Num, sVal.Num, nil
}

func (n *LessThan) Kind() Kind                 { return KindLessThan }
func (n *LessThan) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *LessThan) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *LessThan) Equals(other Node) bool {
	o, ok := other.(*LessThan)
	return ok && o.Master.Equals(n.Master) && o.Slave.Equals(n.Slave)
}
func (n *LessThan) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	if cmp, ok := hostImpl(n.Master).(datatype.Comparer); ok {
		sv, err := valueOf(n.Slave, datatype.Number, ctx)
		if err != nil {
			return false, err
		}
		return cmp.LessThanValue(sv.Num), nil
	}
	mv, sv, err := numericCompare(n.Master, n.Slave, ctx)
	if err != nil {
		return false, err
	}
	return mv < sv, nil
}
func (n *LessThan) fold(conv Converter) any {
	return conv.LessThan(n.Master.fold(conv), n.Slave.fold(conv))
}

func (n *GreaterThan) Kind() Kind                 { return KindGreaterThan }
func (n *GreaterThan) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *GreaterThan) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *GreaterThan) Equals(other Node) bool {
	o, ok := other.(*GreaterThan)
	return ok && o.Master.Equals(n.Master) && o.Slave.Equals(n.Slave)
}
func (n *GreaterThan) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	if cmp, ok := hostImpl(n.Master).(datatype.Comparer); ok {
		sv, err := valueOf(n.Slave, datatype.Number, ctx)
		if err != nil {
			return false, err
		}
		return cmp.GreaterThanValue(sv.Num), nil
	}
	mv, sv, err := numericCompare(n.Master, n.Slave, ctx)
	if err != nil {
		return false, err
	}
	return mv > sv, nil
}
func (n *GreaterThan) fold(conv Converter) any {
	return conv.GreaterThan(n.Master.fold(conv), n.Slave.fold(conv))
}

func (n *LessEqual) Kind() Kind                 { return KindLessEqual }
func (n *LessEqual) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *LessEqual) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *LessEqual) Equals(other Node) bool {
	o, ok := other.(*LessEqual)
	return ok && o.Master.Equals(n.Master) && o.Slave.Equals(n.Slave)
}
func (n *LessEqual) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	gt := &GreaterThan{binary{Master: n.Master, Slave: n.Slave}}
	v, err := gt.ReadAsBoolean(ctx)
	if err != nil {
		return false, err
	}
	return !v, nil
}
func (n *LessEqual) fold(conv Converter) any {
	return conv.LessEqual(n.Master.fold(conv), n.Slave.fold(conv))
}

func (n *GreaterEqual) Kind() Kind                 { return KindGreaterEqual }
func (n *GreaterEqual) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *GreaterEqual) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *GreaterEqual) Equals(other Node) bool {
	o, ok := other.(*GreaterEqual)
	return ok && o.Master.Equals(n.Master) && o.Slave.Equals(n.Slave)
}
func (n *GreaterEqual) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	lt := &LessThan{binary{Master: n.Master, Slave: n.Slave}}
	v, err := lt.ReadAsBoolean(ctx)
	if err != nil {
		return false, err
	}
	return !v, nil
}
func (n *GreaterEqual) fold(conv Converter) any {
	return conv.GreaterEqual(n.Master.fold(conv), n.Slave.fold(conv))
}

// --- BelongsTo / IsSubset ------------------------------------------------

type BelongsTo struct{ binary }
type IsSubset struct{ binary }

// NewBelongsTo requires the set-side operand to implement Set; per spec.md
// §3 the set side is always master regardless of which side is the
// constant.
func NewBelongsTo(item, set Node) (*BelongsTo, error) {
	if !set.Tags().Has(datatype.Set) {
		return nil, boolerr.New(boolerr.InvalidOperation, "belongs_to: right-hand operand must implement Set")
	}
	return &BelongsTo{binary{Master: set, Slave: item}}, nil
}

// NewIsSubset requires both operands to implement Set; the left-hand
// (subset) operand is the master's slave, the right-hand (superset) is
// master, regardless of settings — grammar-level settings such as
// superset_right_in_is_subset (pkg/grammar) decide which *source* operand
// plays which *grammar* role before calling this constructor.
func NewIsSubset(subset, superset Node) (*IsSubset, error) {
	if !subset.Tags().Has(datatype.Set) {
		return nil, boolerr.New(boolerr.InvalidOperation, "is_subset: left-hand operand must implement Set")
	}
	if !superset.Tags().Has(datatype.Set) {
		return nil, boolerr.New(boolerr.InvalidOperation, "is_subset: right-hand operand must implement Set")
	}
	return &IsSubset{binary{Master: superset, Slave: subset}}, nil
}

func (n *BelongsTo) Kind() Kind                 { return KindBelongsTo }
func (n *BelongsTo) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *BelongsTo) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *BelongsTo) Equals(other Node) bool {
	o, ok := other.(*BelongsTo)
	return ok && o.Master.Equals(n.Master) && o.Slave.Equals(n.Slave)
}
func (n *BelongsTo) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	setVal, err := valueOf(n.Master, datatype.Set, ctx)
	if err != nil {
		return false, err
	}
	itemVal, err := valueOf(n.Slave, n.Slave.PreferredTag(), ctx)
	if err != nil {
		return false, err
	}
	return setVal.Contains(itemVal), nil
}
func (n *BelongsTo) fold(conv Converter) any {
	return conv.BelongsTo(n.Master.fold(conv), n.Slave.fold(conv))
}

func (n *IsSubset) Kind() Kind                 { return KindIsSubset }
func (n *IsSubset) Tags() datatype.Tags        { return datatype.Tags(datatype.Boolean) }
func (n *IsSubset) PreferredTag() datatype.Tag { return datatype.Boolean }
func (n *IsSubset) Equals(other Node) bool {
	o, ok := other.(*IsSubset)
	return ok && o.Master.Equals(n.Master) && o.Slave.Equals(n.Slave)
}
func (n *IsSubset) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	supersetVal, err := valueOf(n.Master, datatype.Set, ctx)
	if err != nil {
		return false, err
	}
	subsetVal, err := valueOf(n.Slave, datatype.Set, ctx)
	if err != nil {
		return false, err
	}
	return supersetVal.IsSupersetOf(subsetVal), nil
}
func (n *IsSubset) fold(conv Converter) any {
	return conv.IsSubset(n.Master.fold(conv), n.Slave.fold(conv))
}
