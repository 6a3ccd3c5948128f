package generator

// Order is the binding strength of a generated expression. Lower values bind
// tighter; a child expression is parenthesised when its order is numerically
// greater than the order its parent can splice in unwrapped.
type Order int

const (
	OrderAtomic         Order = 0  // literals, identifiers
	OrderUnaryPostfix   Order = 1  // expr++ expr-- f() a[i]
	OrderUnaryPrefix    Order = 2  // -expr !expr ~expr ++expr (cast)
	OrderMultiplicative Order = 3  // * / %
	OrderAdditive       Order = 4  // + -
	OrderShift          Order = 5  // << >>
	OrderRelational     Order = 7  // < <= > >=
	OrderEquality       Order = 8  // == !=
	OrderBitwiseAnd     Order = 9  // &
	OrderBitwiseXor     Order = 10 // ^
	OrderBitwiseOr      Order = 11 // |
	OrderLogicalAnd     Order = 12 // &&
	OrderLogicalOr      Order = 13 // ||
	OrderConditional    Order = 14 // ?:
	OrderAssignment     Order = 15 // = += -= ...
	OrderNone           Order = 99 // (...)
)

// Expr is the result of a value emitter.
type Expr struct {
	Code  string
	Order Order
}

// E builds an Expr.
func E(code string, order Order) Expr {
	return Expr{Code: code, Order: order}
}

// Wrap returns the expression text, parenthesised when e binds looser than
// required.
func Wrap(e Expr, required Order) string {
	if e.Order > required {
		return "(" + e.Code + ")"
	}
	return e.Code
}
