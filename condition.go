package appctx

import "fmt"

// Condition decides whether a definition is active in the given environment.
// Conditions must be pure and cheap: they are evaluated once per definition when the context is processed.
type Condition interface {
	Test(env Environment) bool
}

// ConditionFunc adapts a plain function to Condition. Functions are not comparable, so
// combinators wrapping a ConditionFunc must not be compared with ==.
type ConditionFunc func(env Environment) bool

func (f ConditionFunc) Test(env Environment) bool {
	return f(env)
}

// PropertyEquals is true iff the property exists and equals Value.
type PropertyEquals struct {
	Name  string
	Value string
}

func (c PropertyEquals) Test(env Environment) bool {
	value, ok := env.Get(c.Name)
	return ok && value == c.Value
}

func (c PropertyEquals) String() string {
	return fmt.Sprintf("%s=%q", c.Name, c.Value)
}

// OrCondition is true iff either operand is true. Right is not evaluated when Left is true.
// A nil operand always holds.
type OrCondition struct {
	Left  Condition
	Right Condition
}

func Or(left, right Condition) OrCondition {
	return OrCondition{Left: left, Right: right}
}

func (c OrCondition) Test(env Environment) bool {
	return holds(c.Left, env) || holds(c.Right, env)
}

func (c OrCondition) String() string {
	return fmt.Sprintf("(%s OR %s)", conditionString(c.Left), conditionString(c.Right))
}

// AndCondition is true iff both operands are true. Right is not evaluated when Left is false.
// A nil operand always holds.
type AndCondition struct {
	Left  Condition
	Right Condition
}

func And(left, right Condition) AndCondition {
	return AndCondition{Left: left, Right: right}
}

func (c AndCondition) Test(env Environment) bool {
	return holds(c.Left, env) && holds(c.Right, env)
}

func (c AndCondition) String() string {
	return fmt.Sprintf("(%s AND %s)", conditionString(c.Left), conditionString(c.Right))
}

// NotCondition is the complement of the wrapped condition, it is evaluated on every call.
// The complement of nil never holds.
type NotCondition struct {
	Condition Condition
}

// Negate is typically used to register mutually exclusive definitions of the same type:
// one guarded by a condition and another one by its negation.
func Negate(c Condition) NotCondition {
	return NotCondition{Condition: c}
}

func (c NotCondition) Test(env Environment) bool {
	return !holds(c.Condition, env)
}

func (c NotCondition) String() string {
	return fmt.Sprintf("NOT %s", conditionString(c.Condition))
}

func holds(c Condition, env Environment) bool {
	return c == nil || c.Test(env)
}

func conditionString(c Condition) string {
	switch c := c.(type) {
	case nil:
		return "always"
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprintf("%T", c)
	}
}
