// Package ast defines the immutable tree of statements and expressions
// produced by the parser and consumed by the evaluator, the binary AST
// codec, and the C transpiler.
package ast

import "github.com/hemlock-lang/hemlock/internal/token"

// Node is implemented by every statement and expression node. Every
// node carries a source position for diagnostics.
type Node interface {
	Pos() token.Position
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

type Base struct {
	P token.Position
}

func (b Base) Pos() token.Position { return b.P }

// Program is the root of a parsed file: a sequence of top-level
// statements.
type Program struct {
	Statements []Stmt
}

// ---- Statements ----

type LetStmt struct {
	Base
	Name  string
	Type  TypeExpr // nil if no annotation
	Value Expr
}

func (*LetStmt) stmtNode() {}

type ConstStmt struct {
	Base
	Name  string
	Type  TypeExpr
	Value Expr
}

func (*ConstStmt) stmtNode() {}

type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode() {}

type BlockStmt struct {
	Base
	Statements []Stmt
}

func (*BlockStmt) stmtNode() {}

type IfStmt struct {
	Base
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt or *IfStmt, nil if absent
}

func (*IfStmt) stmtNode() {}

type WhileStmt struct {
	Base
	Cond Expr
	Body *BlockStmt
}

func (*WhileStmt) stmtNode() {}

// ForStmt is the C-style three-clause for loop. Any clause may be nil.
type ForStmt struct {
	Base
	Init Stmt
	Cond Expr
	Post Stmt
	Body *BlockStmt
}

func (*ForStmt) stmtNode() {}

// ForInStmt iterates an array. ValueName is always set; KeyName is set
// only for the "(key, value)" form.
type ForInStmt struct {
	Base
	KeyName   string
	ValueName string
	Iterable  Expr
	Body      *BlockStmt
}

func (*ForInStmt) stmtNode() {}

type ReturnStmt struct {
	Base
	Value Expr // nil for bare `return;`
}

func (*ReturnStmt) stmtNode() {}

type BreakStmt struct{ Base }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ Base }

func (*ContinueStmt) stmtNode() {}

type CatchClause struct {
	Name string
	Body *BlockStmt
}

type TryStmt struct {
	Base
	Try     *BlockStmt
	Catch   *CatchClause // nil if absent
	Finally *BlockStmt   // nil if absent
}

func (*TryStmt) stmtNode() {}

type ThrowStmt struct {
	Base
	Value Expr
}

func (*ThrowStmt) stmtNode() {}

type SwitchCase struct {
	// Values is empty for the default case.
	Values []Expr
	Body   []Stmt
}

type SwitchStmt struct {
	Base
	Discriminant Expr
	Cases        []*SwitchCase
}

func (*SwitchStmt) stmtNode() {}

// DeferStmt registers an expression (not its value) for evaluation at
// function exit, LIFO.
type DeferStmt struct {
	Base
	Call Expr
}

func (*DeferStmt) stmtNode() {}

type EnumMember struct {
	Name  string
	Value Expr // explicit override, nil for auto-increment
}

type EnumStmt struct {
	Base
	Name    string
	Members []EnumMember
}

func (*EnumStmt) stmtNode() {}

// ObjectField describes one field of a define_object type definition.
type ObjectField struct {
	Name     string
	Type     TypeExpr
	Required bool
}

// DefineObjectStmt declares a runtime-validated duck-typed object
// shape, used by `let x: Name = ...` type coercion.
type DefineObjectStmt struct {
	Base
	Name   string
	Fields []ObjectField
}

func (*DefineObjectStmt) stmtNode() {}

// ImportSpecifier binds a local name to an original exported name.
type ImportSpecifier struct {
	Local    string
	Original string
}

type ImportStmt struct {
	Base
	Specifiers []ImportSpecifier
	Source     string // the raw import path/specifier
}

func (*ImportStmt) stmtNode() {}

type ExportStmt struct {
	Base
	Decl Stmt // LetStmt, ConstStmt, or a named FunctionLit wrapped in ExprStmt
}

func (*ExportStmt) stmtNode() {}

// ImportFFIStmt loads a native library; the FFI capability itself is
// an opaque external collaborator (see top-level spec, FFI section).
type ImportFFIStmt struct {
	Base
	Library string
	Alias   string
}

func (*ImportFFIStmt) stmtNode() {}

// ExternFnStmt declares the signature of a native function made
// available through FFI.
type ExternFnStmt struct {
	Base
	Name       string
	ParamTypes []TypeExpr
	ReturnType TypeExpr
}

func (*ExternFnStmt) stmtNode() {}

// ---- Type annotations ----

// TypeExpr is implemented by type-annotation nodes (§4.3 "Type
// annotations"): primitives, named object types, and array-of-T.
type TypeExpr interface {
	Node
	typeNode()
}

type PrimitiveType struct {
	Base
	Name string // "i8".."u64", "f32", "f64", "bool", "string", "rune", ...
}

func (*PrimitiveType) typeNode() {}

type NamedType struct {
	Base
	Name string
}

func (*NamedType) typeNode() {}

type ArrayType struct {
	Base
	Elem TypeExpr
}

func (*ArrayType) typeNode() {}

// ---- Expressions ----

type NullLit struct{ Base }

func (*NullLit) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode() {}

// IntLit carries the literal's raw text so the evaluator can choose
// the narrowest integer width that fits (§4.1 "Construction").
type IntLit struct {
	Base
	Literal string
}

func (*IntLit) exprNode() {}

type FloatLit struct {
	Base
	Literal string
}

func (*FloatLit) exprNode() {}

type StringLit struct {
	Base
	Value string
}

func (*StringLit) exprNode() {}

type RuneLit struct {
	Base
	Value rune
}

func (*RuneLit) exprNode() {}

type Identifier struct {
	Base
	Name string
}

func (*Identifier) exprNode() {}

type BinaryExpr struct {
	Base
	Op          string
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Base
	Op string
	X  Expr
}

func (*UnaryExpr) exprNode() {}

type TernaryExpr struct {
	Base
	Cond, Then, Else Expr
}

func (*TernaryExpr) exprNode() {}

type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

type AssignExpr struct {
	Base
	Target Expr   // Identifier, PropertyExpr, or IndexExpr
	Op     string // "=", "+=", "-=", "*=", "/=", "%="
	Value  Expr
}

func (*AssignExpr) exprNode() {}

// PropertyExpr is `X.Name`, possibly optional-chained (`X?.Name`).
type PropertyExpr struct {
	Base
	X        Expr
	Name     string
	Optional bool
}

func (*PropertyExpr) exprNode() {}

type IndexExpr struct {
	Base
	X        Expr
	Index    Expr
	Optional bool
}

func (*IndexExpr) exprNode() {}

type ArrayLit struct {
	Base
	Elements []Expr
}

func (*ArrayLit) exprNode() {}

type ObjectField2 struct {
	Key   string
	Value Expr
}

type ObjectLit struct {
	Base
	Fields []ObjectField2
}

func (*ObjectLit) exprNode() {}

type Param struct {
	Name    string
	Default Expr // nil if no default
	Type    TypeExpr
}

type FunctionLit struct {
	Base
	Name    string // non-empty for `let f = fn name(...) {...}` style naming; empty for anonymous
	Params  []Param
	IsAsync bool
	Body    *BlockStmt
}

func (*FunctionLit) exprNode() {}

// IncDecExpr models both prefix (++x) and postfix (x++) forms.
type IncDecExpr struct {
	Base
	X       Expr
	Op      string // "++" or "--"
	Postfix bool
}

func (*IncDecExpr) exprNode() {}

// InterpStringExpr alternates string-literal parts and expression
// parts: Parts[i] is the literal text, Exprs[i] the expression that
// follows it; Parts has one more entry than Exprs (the text after the
// last "${...}", possibly empty).
type InterpStringExpr struct {
	Base
	Parts []string
	Exprs []Expr
}

func (*InterpStringExpr) exprNode() {}

type AwaitExpr struct {
	Base
	X Expr
}

func (*AwaitExpr) exprNode() {}

// NullCoalesceExpr is `X ?? Default`.
type NullCoalesceExpr struct {
	Base
	X, Default Expr
}

func (*NullCoalesceExpr) exprNode() {}
