// Package ir is the program the value marshaller emits: three-address
// statements over named operands, where every runtime operation is a call
// into package rt bound to fresh temporaries.
//
// An ir.Func can be executed by package eval or printed as Go source.
package ir

// Op names a runtime helper. The printer renders a call as rt.<Op>(cx, ...).
type Op string

// Expr is an operand: a variable, a constant, or an element of a result list.
type Expr interface {
	isExpr()
}

// Var references a named operand.
type Var struct {
	Name string
}

// Const is a literal. Supported values: nil, bool, int, int32, int64, uint32,
// float32, float64, string and []string.
type Const struct {
	Value any
}

// Index selects element I of a result list returned by a call.
type Index struct {
	X Expr
	I int
}

func (Var) isExpr()   {}
func (Const) isExpr() {}
func (Index) isExpr() {}

// Call invokes a runtime helper.
type Call struct {
	Op   Op
	Args []Expr
}

// Stmt is a statement.
type Stmt interface {
	isStmt()
}

// Assign binds the results of a fallible call. Define selects := over =.
// An Assign with no names calls a helper that returns only an error.
type Assign struct {
	Names  []string
	Call   Call
	Define bool
}

// Let defines Name as Value.
type Let struct {
	Value Expr
	Name  string
}

// Set assigns Value to an existing variable.
type Set struct {
	Value Expr
	Name  string
}

// Declare introduces variables set later from inside switch arms.
type Declare struct {
	Names []string
}

// Switch executes the case whose Value equals Tag.
type Switch struct {
	Tag     Expr
	Cases   []Case
	Default []Stmt
}

type Case struct {
	Body  []Stmt
	Value int32
}

// Loop runs Body Count times with Index bound to 0..Count-1 as int32.
type Loop struct {
	Count Expr
	Index string
	Body  []Stmt
}

// Fail aborts with an invalid discriminant error.
type Fail struct {
	Disc  Expr
	Cases int
}

// Return ends the function with Values.
type Return struct {
	Values []Expr
}

func (Assign) isStmt()  {}
func (Let) isStmt()     {}
func (Set) isStmt()     {}
func (Declare) isStmt() {}
func (Switch) isStmt()  {}
func (Loop) isStmt()    {}
func (Fail) isStmt()    {}
func (Return) isStmt()  {}

// Func is a complete emitted program.
type Func struct {
	Name    string
	Params  []string
	Body    []Stmt
	Results int
}
